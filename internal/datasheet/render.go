package datasheet

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"github.com/skydecor/catalog/internal/catalog"
	"github.com/skydecor/catalog/internal/view"
	"github.com/skydecor/catalog/web"
)

const templateName = "reports/datasheet.html"

// Renderer turns a product into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, p catalog.Product) ([]byte, error)
}

// PDFClient converts HTML to PDF. report.Client implements it.
type PDFClient interface {
	RenderHTML(ctx context.Context, html []byte) ([]byte, error)
}

type sheet struct {
	Product     catalog.Product
	GeneratedAt time.Time
}

// HTMLRenderer fills the datasheet template and hands it to a PDFClient.
type HTMLRenderer struct {
	tpl    *template.Template
	client PDFClient
	now    func() time.Time
}

// NewHTMLRenderer parses the embedded datasheet template.
func NewHTMLRenderer(client PDFClient) (*HTMLRenderer, error) {
	tpl, err := template.New("datasheet").Funcs(view.FuncMap()).ParseFS(web.Templates, "templates/reports/*.html")
	if err != nil {
		return nil, fmt.Errorf("datasheet: parse template: %w", err)
	}
	return &HTMLRenderer{tpl: tpl, client: client, now: time.Now}, nil
}

// HTML renders the datasheet document without converting it.
func (r *HTMLRenderer) HTML(p catalog.Product) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, templateName, sheet{Product: p, GeneratedAt: r.now()}); err != nil {
		return nil, fmt.Errorf("datasheet: execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// Render implements Renderer.
func (r *HTMLRenderer) Render(ctx context.Context, p catalog.Product) ([]byte, error) {
	html, err := r.HTML(p)
	if err != nil {
		return nil, err
	}
	return r.client.RenderHTML(ctx, html)
}

// MarotoRenderer draws the datasheet natively, without a browser.
type MarotoRenderer struct {
	now func() time.Time
}

// NewMarotoRenderer constructs a MarotoRenderer.
func NewMarotoRenderer() *MarotoRenderer {
	return &MarotoRenderer{now: time.Now}
}

var (
	ink   = color.Color{Red: 38, Green: 38, Blue: 34}
	muted = color.Color{Red: 121, Green: 119, Blue: 109}
)

// Render implements Renderer.
func (r *MarotoRenderer) Render(ctx context.Context, p catalog.Product) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(15, 15, 15)

	m.Row(14, func() {
		m.Col(12, func() {
			m.Text(p.Code, props.Text{Size: 22, Style: consts.Bold, Color: ink})
		})
	})
	title := p.Name
	if p.DesignName != "" {
		title += " - " + p.DesignName
	}
	m.Row(8, func() {
		m.Col(12, func() {
			m.Text(title, props.Text{Size: 12, Color: muted})
		})
	})
	m.Row(6, func() {})

	for _, spec := range specRows(p) {
		label, value := spec[0], spec[1]
		m.Row(7, func() {
			m.Col(4, func() {
				m.Text(label, props.Text{Size: 9, Style: consts.Bold, Color: muted})
			})
			m.Col(8, func() {
				m.Text(value, props.Text{Size: 10, Color: ink})
			})
		})
	}

	m.Row(10, func() {})
	m.Row(5, func() {
		m.Col(12, func() {
			m.Text("SkyDecor product datasheet - generated "+r.now().Format("02 Jan 2006"), props.Text{Size: 8, Color: muted})
		})
	})

	out, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("datasheet: maroto output: %w", err)
	}
	return out.Bytes(), nil
}

func specRows(p catalog.Product) [][2]string {
	rows := [][2]string{{"Product type", p.Type}}
	texture := p.Texture
	if p.TextureCode != "" {
		texture += " (" + p.TextureCode + ")"
	}
	for _, kv := range [][2]string{
		{"Category", p.Category},
		{"Sub category", p.SubCategory},
		{"Texture", strings.TrimSpace(texture)},
	} {
		if kv[1] != "" {
			rows = append(rows, kv)
		}
	}
	return append(rows,
		[2]string{"Size", p.Size},
		[2]string{"Thickness", p.Thickness},
		[2]string{"Width", p.Width},
	)
}

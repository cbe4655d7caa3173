package site

import (
	"net/http"

	"github.com/skydecor/catalog/internal/view"
)

// InfoPage is a static page rendered through pages/info.html.
type InfoPage struct {
	Path     string
	Title    string
	Heading  string
	Sections []string
	Contact  bool
}

// InfoPages lists every static page of the site.
var InfoPages = []InfoPage{
	{Path: "/contact-us", Title: "Contact Us", Heading: "Get in touch", Contact: true, Sections: []string{
		"Reach our sales team for dealer enquiries, samples and project pricing.",
	}},
	{Path: "/about-us", Title: "About Us", Heading: "About SkyDecor", Sections: []string{
		"SkyDecor manufactures decorative laminates, PVC and acrylic panels, soffitto and liner collections.",
		"Our designs are produced in-house and distributed through a national dealer network.",
	}},
	{Path: "/certificates", Title: "Certificates", Heading: "Quality certifications", Sections: []string{
		"Our products are tested for surface durability, fire retardancy and formaldehyde emissions.",
	}},
	{Path: "/customer-review", Title: "Customer Reviews", Heading: "What our customers say", Sections: []string{
		"Architects, interior designers and homeowners share their experience with SkyDecor surfaces.",
	}},
	{Path: "/privacy-policy", Title: "Privacy Policy", Heading: "Privacy policy", Sections: []string{
		"Enquiry details are used only to respond to your request and are never sold to third parties.",
		"Cookies are limited to a session identifier used for form protection.",
	}},
	{Path: "/application/bedroom-design-laminates", Title: "Bedroom Design Laminates", Heading: "Bedroom designs", Sections: []string{
		"Calm textures and soft woodgrains for wardrobes, headboards and bedside units.",
	}},
	{Path: "/application/kids-room-design", Title: "Kids Room Design", Heading: "Kids room designs", Sections: []string{
		"Bright, scratch resistant finishes that are easy to clean.",
	}},
	{Path: "/application/office-design-laminates", Title: "Office Design Laminates", Heading: "Office designs", Sections: []string{
		"Hard wearing surfaces for workstations, cabins and reception desks.",
	}},
	{Path: "/application/living-room-design", Title: "Living Room Design", Heading: "Living room designs", Sections: []string{
		"Statement panels and high gloss acrylics for feature walls and storage.",
	}},
	{Path: "/application/kitchen-design-laminates", Title: "Kitchen Design Laminates", Heading: "Kitchen designs", Sections: []string{
		"Moisture and heat resistant laminates for shutters and counters.",
	}},
	{Path: "/application/wardrobs-design", Title: "Wardrobe Design", Heading: "Wardrobe designs", Sections: []string{
		"Matte, gloss and textured finishes for sliding and hinged wardrobes.",
	}},
	{Path: "/application/tv-unit-design", Title: "TV Unit Design", Heading: "TV unit designs", Sections: []string{
		"Fluted PVC panels and liners for media walls.",
	}},
}

func (h *Handler) info(p InfoPage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderer.Page(w, r, http.StatusOK, "pages/info.html", view.TemplateData{
			Title: p.Title + " - SkyDecor",
			Data:  p,
		})
	}
}

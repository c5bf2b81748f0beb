// Package site serves the browser views: a static route table that binds
// each URL path to one embedded page.
package site

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/gofiber/fiber/v2"
)

//go:embed static/*.html
var staticFS embed.FS

// Route binds a URL path to a view.
type Route struct {
	Path string
	Name string
	View string
}

// Routes is the view table. There are no guards or parameters.
var Routes = []Route{
	{Path: "/", Name: "ContractList", View: "contract_list.html"},
	{Path: "/create", Name: "CreateContract", View: "create_contract.html"},
}

// Register mounts every route in Routes on app. It fails if a view is missing
// from the embedded files.
func Register(app *fiber.App) error {
	views, err := fs.Sub(staticFS, "static")
	if err != nil {
		return err
	}
	for _, r := range Routes {
		page, err := fs.ReadFile(views, r.View)
		if err != nil {
			return fmt.Errorf("view %s: %w", r.Name, err)
		}
		app.Get(r.Path, viewHandler(page)).Name(r.Name)
	}
	return nil
}

func viewHandler(page []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.Send(page)
	}
}

package server

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"blogg/config"
	"blogg/db"
	"blogg/forms"
	"blogg/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

//go:embed views
var views embed.FS

type ServerConfig struct {

	// The database to read and write posts through
	DB *db.DB

	// Site presentation settings from the TOML config
	Site config.TomlSite
}

// postRow is a post prepared for template rendering
type postRow struct {
	Id        int64
	Author    string
	Content   string
	CreatedAt string
}

func toRow(post models.Post, _ int) postRow {
	return postRow{
		Id:        post.Id,
		Author:    post.Author,
		Content:   post.Content,
		CreatedAt: post.CreatedAt.Format("2006-01-02 15:04"),
	}
}

// Returns a fiber.App instance to be used as the HTTP server for the blog
func Server(config *ServerConfig) *fiber.App {

	templates, err := fs.Sub(views, "views")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(templates), ".html")

	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/main",
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		// start timer
		start := time.Now()

		// next routes
		err := c.Next()

		// stop timer
		stop := time.Now()

		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"status":  c.Response().StatusCode(),
			"latency": stop.Sub(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())

	// List posts, newest first
	app.Get("/", func(c *fiber.Ctx) error {
		posts, err := config.DB.ListPosts(c.Context())
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error listing posts")
			return c.Status(fiber.StatusInternalServerError).SendString("Error listing posts")
		}

		return c.Render("index", fiber.Map{
			"Site":  config.Site,
			"Posts": lo.Map(posts, toRow),
		})
	})

	// Empty creation form
	app.Get("/new", func(c *fiber.Ctx) error {
		return c.Render("new", fiber.Map{
			"Site":    config.Site,
			"Author":  "",
			"Content": "",
		})
	})

	app.Post("/new", func(c *fiber.Ctx) error {
		author := c.FormValue("author")
		content := c.FormValue("content")

		form, err := forms.CleanPost(author, content)
		if err != nil {
			// Re-show the form with the submitted values so nothing is lost.
			// The source returns 200 here and 400 on the edit form; kept as is.
			return c.Render("new", fiber.Map{
				"Site":    config.Site,
				"Error":   err.Error(),
				"Author":  author,
				"Content": content,
			})
		}

		if _, err := config.DB.CreatePost(c.Context(), form.Author, form.Content); err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error creating post")
			return c.Status(fiber.StatusInternalServerError).SendString("Error creating post")
		}

		return c.Redirect("/", fiber.StatusSeeOther)
	})

	// Edit form pre-filled with the current post
	app.Get("/edit/:id", func(c *fiber.Ctx) error {
		post, err := lookupPost(c, config.DB)
		if err != nil {
			return respondLookupError(c, err)
		}

		return c.Render("edit", fiber.Map{
			"Site":    config.Site,
			"Id":      post.Id,
			"Author":  post.Author,
			"Content": post.Content,
		})
	})

	app.Post("/edit/:id", func(c *fiber.Ctx) error {
		post, err := lookupPost(c, config.DB)
		if err != nil {
			return respondLookupError(c, err)
		}

		author := c.FormValue("author")
		content := c.FormValue("content")

		form, err := forms.CleanPost(author, content)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).Render("edit", fiber.Map{
				"Site":    config.Site,
				"Id":      post.Id,
				"Author":  author,
				"Content": content,
				"Error":   err.Error(),
			})
		}

		if _, err := config.DB.UpdatePost(c.Context(), post.Id, form.Author, form.Content); err != nil {
			log.WithFields(log.Fields{
				"id":    post.Id,
				"error": err,
			}).Error("Error updating post")
			return c.Status(fiber.StatusInternalServerError).SendString("Error updating post")
		}

		return c.Redirect("/", fiber.StatusSeeOther)
	})

	app.Post("/delete/:id", func(c *fiber.Ctx) error {
		post, err := lookupPost(c, config.DB)
		if err != nil {
			return respondLookupError(c, err)
		}

		if err := config.DB.DeletePost(c.Context(), post.Id); err != nil {
			if errors.Is(err, db.ErrPostNotFound) {
				return c.Status(fiber.StatusNotFound).SendString("Post not found")
			}
			log.WithFields(log.Fields{
				"id":    post.Id,
				"error": err,
			}).Error("Error deleting post")
			return c.Status(fiber.StatusInternalServerError).SendString("Error deleting post")
		}

		return c.Redirect("/", fiber.StatusSeeOther)
	})

	return app
}

// lookupPost resolves the :id route parameter to a stored post.
// A non-numeric id is treated the same as a missing row.
func lookupPost(c *fiber.Ctx, database *db.DB) (models.Post, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return models.Post{}, db.ErrPostNotFound
	}
	return database.GetPost(c.Context(), id)
}

func respondLookupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, db.ErrPostNotFound) {
		return c.Status(fiber.StatusNotFound).SendString("Post not found")
	}
	log.WithFields(log.Fields{
		"error": err,
	}).Error("Error loading post")
	return c.Status(fiber.StatusInternalServerError).SendString("Error loading post")
}

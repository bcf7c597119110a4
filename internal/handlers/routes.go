package handlers

import "github.com/gofiber/fiber/v2"

type Routes struct {
	Categories *CategoriesHandler
	Products   *ProductsHandler
	Users      *UsersHandler
	Files      *FilesHandler
}

func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

func (r Routes) Register(app *fiber.App) {
	app.Get("/health", Health)

	api := app.Group("/api")

	categoryRoutes := api.Group("/categories")
	categoryRoutes.Get("/", r.Categories.List)
	categoryRoutes.Get("/:id", r.Categories.Get)
	categoryRoutes.Post("/", r.Categories.Create)
	categoryRoutes.Put("/:id", r.Categories.Update)
	categoryRoutes.Delete("/:id", r.Categories.Delete)

	productRoutes := api.Group("/products")
	productRoutes.Get("/", r.Products.List)
	productRoutes.Get("/category/:categoryId", r.Products.ListByCategory)
	productRoutes.Get("/:id", r.Products.Get)
	productRoutes.Post("/", r.Products.Create)
	productRoutes.Put("/:id", r.Products.Update)
	productRoutes.Delete("/:id", r.Products.Delete)

	userRoutes := api.Group("/users")
	userRoutes.Get("/", r.Users.List)
	userRoutes.Get("/:id", r.Users.Get)
	userRoutes.Post("/", r.Users.Create)
	userRoutes.Put("/:id", r.Users.Update)
	userRoutes.Delete("/:id", r.Users.Delete)

	api.Post("/files/upload", r.Files.Upload)
}

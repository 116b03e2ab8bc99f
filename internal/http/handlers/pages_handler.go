package handlers

import "github.com/gofiber/fiber/v2"

func About(c *fiber.Ctx) error   { return render(c, "about", nil) }
func Contact(c *fiber.Ctx) error { return render(c, "contact", nil) }

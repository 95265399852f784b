package handlers

import "github.com/gofiber/fiber/v2"

// All responses use the uniform envelope: {success:true, data:...} or
// {success:false, error:"..."}.

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": message})
}

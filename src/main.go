package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"franchise-intake-api/src/database"
	"franchise-intake-api/src/jobs"
	"franchise-intake-api/src/routes"
	"franchise-intake-api/src/seeder"
	"franchise-intake-api/src/services/sessions"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
)

func main() {

	err := database.ConnectMongoDB()
	if err != nil {
		log.Fatalf("Error connecting to the database: %v", err)
	}
	database.InitRedis()
	database.InitAsynq()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := seeder.SeedDefaultForm(ctx); err != nil {
		log.Println("⚠️ Form seeding failed:", err)
	}
	if err := seeder.SeedDefaultAdmin(ctx, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		log.Println("⚠️ Admin seeding failed:", err)
	}
	cancel()

	jobs.StartWorker()
	sessions.StartJanitor(context.Background(), 5*time.Minute)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	routes.InitRoutes(app)

	appURI := os.Getenv("APP_URI")
	if appURI == "" {
		appURI = "8888"
	}

	log.Println("Server is running on port " + appURI)
	err = app.Listen(fmt.Sprintf(":%s", url.PathEscape(appURI)))
	if err != nil {
		log.Fatal(err)
	}

}

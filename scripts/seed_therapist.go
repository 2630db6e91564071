package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/mindcare/therapist-api/pkg/auth"
)

func main() {
	fmt.Println("adding therapist into database...")

	err := godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	DSN := os.Getenv("DB_DSN")
	THERAPIST_NAME := os.Getenv("THERAPIST_NAME")
	THERAPIST_EMAIL := os.Getenv("THERAPIST_EMAIL")
	JWT_SECRET := os.Getenv("JWT_SECRET")

	pool, err := pgxpool.New(context.Background(), DSN)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	therapistID := uuid.New()
	query := `
		INSERT INTO therapists (id, full_name, email, image_status, created_at, updated_at)
		VALUES ($1, $2, $3, 'none', NOW(), NOW())
	`
	_, err = pool.Exec(context.Background(), query, therapistID, THERAPIST_NAME, THERAPIST_EMAIL)
	if err != nil {
		log.Fatalf("cannot add therapist: %v", err)
	}

	fmt.Printf("added therapist '%s' with id %s\n", THERAPIST_NAME, therapistID)

	if JWT_SECRET != "" {
		jwtSvc := auth.NewJWTService(JWT_SECRET, 30*24*time.Hour)
		token, err := jwtSvc.GenerateToken(therapistID, auth.RoleTherapist)
		if err != nil {
			log.Fatalf("cannot mint token: %v", err)
		}
		fmt.Printf("bearer token for local testing:\n%s\n", token)
	}
}

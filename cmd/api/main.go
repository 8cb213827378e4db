package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"mhhf/internal/adapter/api"
	"mhhf/internal/adapter/api/handler"
	apimiddleware "mhhf/internal/adapter/api/middleware"
	"mhhf/internal/adapter/api/router"
	"mhhf/internal/adapter/repository"
	"mhhf/internal/infrastructure/cloudinary"
	"mhhf/internal/infrastructure/firebase"
	"mhhf/internal/infrastructure/websocket"
	"mhhf/internal/usecase"
	"mhhf/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.MediaConfigured() {
		log.Printf("Warning: Firebase/Cloudinary configuration is incomplete; the media console will be limited")
	}

	ctx := context.Background()

	var opt option.ClientOption

	// Service account from env (production) or file (local development)
	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./serviceAccount.json"
		}

		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}

		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	mediaRepo := repository.NewFirestoreMediaRepository(firestoreClient)

	storageClient := cloudinary.NewClient(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryImagePreset,
		cfg.CloudinaryVideoPreset,
		cfg.MediaFolderPrefix,
	)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseApiKey)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	authUseCase := usecase.NewAuthUseCase(firebaseAuthClient)
	mediaUseCase := usecase.NewMediaUseCase(mediaRepo, storageClient)

	handler.Setup(authUseCase, mediaUseCase)
	handler.SetupHealthHandler(firebaseAuthClient)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	consoleHandler := handler.NewConsoleHandler(wsManager, authClient, mediaUseCase, mediaRepo)

	router.Setup(e, authMiddleware)
	router.SetupConsoleRouter(e, consoleHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"tindler_server/routes"
	"tindler_server/services"
	"tindler_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load environment overrides from .env when present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	// Pick the snapshot store: DynamoDB when a region is configured,
	// in-memory otherwise
	var store services.KVStore
	if os.Getenv("AWS_REGION") != "" {
		log.Println("Initializing DynamoDB client...")
		dynamoClient := services.InitializeDynamoDBClient()
		store = services.NewDynamoStore(dynamoClient, os.Getenv("SESSION_TABLE"))
		log.Println("DynamoDB snapshot store initialized.")
	} else {
		log.Println("No AWS region configured, using in-memory snapshot store")
		store = services.NewMemoryStore()
	}

	// Socket.IO server for match and message pushes
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Printf("Socket.IO server error: %v", err)
		}
	}()
	defer socketServer.Close()
	notifier := socket.NewBroadcaster(socketServer)

	// Per-session engines; each new session gets its own matchmaker so demo
	// sessions do not share message logs
	baseURL := os.Getenv("API_BASE_URL")
	token := os.Getenv("API_TOKEN")
	manager := services.NewSessionManager(store, func() services.Matchmaker {
		return services.SelectMatchmaker(baseURL, token)
	}, notifier)
	defer manager.Shutdown()

	// Photo presigning is optional: only wired when a bucket is configured
	var photoService *services.PhotoService
	if bucket := os.Getenv("S3_BUCKET_NAME"); bucket != "" {
		ps, err := services.NewPhotoService(context.Background(), os.Getenv("AWS_REGION"), bucket)
		if err != nil {
			log.Printf("Photo service unavailable: %v", err)
		} else {
			photoService = ps
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Tindler")
	}).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	routes.RegisterSessionRoutes(r, manager)
	routes.RegisterDiscoverRoutes(r, manager)
	routes.RegisterMatchRoutes(r, manager)
	routes.RegisterChatRoutes(r, manager)
	routes.RegisterPhotoRoutes(r, photoService)
	r.PathPrefix("/socket.io/").Handler(socketServer)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Session-Key"},
		AllowCredentials: true,
	}).Handler(r)

	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"coopnotes_server/routes"
	"coopnotes_server/services"
	"coopnotes_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and the chat store
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	store := &services.DynamoChatStore{Dynamo: dynamoService}
	log.Println("DynamoDB client initialized.")

	// Change bus feeding live subscriptions and the socket bridge
	bus := services.NewChangeBus()

	// Initialize Services
	userProfileService := &services.UserProfileService{Store: store}
	inviteService := &services.InviteService{Store: store, Bus: bus}
	membershipService := &services.MembershipService{Store: store, Bus: bus}
	chatService := &services.ChatService{Store: store, Bus: bus}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Coop Notes")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterUserProfileRoutes(r, userProfileService)
	routes.RegisterInviteRoutes(r, inviteService)
	routes.RegisterMembershipRoutes(r, membershipService)
	routes.RegisterChatRoutes(r, chatService)

	// Socket.IO server pushing change notifications to chat rooms
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()
	stopBridge := socket.RunBridge(socketServer, bus)
	defer stopBridge()
	r.Handle("/socket.io/", socketServer)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}

package main

import (
	"fmt"
	"log"
	"os"

	"connecto/backend/internal/config"
	"connecto/backend/internal/models"
	"connecto/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Операційний CLI: заведення користувачів, кімнат і сесій без HTTP-шару.

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	s := storage.NewStorageService(db, rdb)

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "create-user":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin create-user <name> <email>")
			os.Exit(1)
		}
		user := &models.User{Name: os.Args[2], Email: os.Args[3]}
		if err := s.SaveUser(user); err != nil {
			log.Fatalf("Error creating user: %v", err)
		}
		fmt.Printf("User created: %s\n", user.ID)

	case "create-dm":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin create-dm <user_id_a> <user_id_b>")
			os.Exit(1)
		}
		room, err := s.CreateDmRoom(os.Args[2], os.Args[3])
		if err != nil {
			log.Fatalf("Error creating dm room: %v", err)
		}
		fmt.Printf("DM room: %s\n", room.RoomID)

	case "create-group":
		if len(os.Args) < 5 {
			fmt.Println("Usage: admin create-group <creator_id> <name> <member_id>...")
			os.Exit(1)
		}
		room, err := s.CreateGroupRoom(os.Args[2], os.Args[3], os.Args[4:])
		if err != nil {
			log.Fatalf("Error creating group room: %v", err)
		}
		fmt.Printf("Group room: %s\n", room.RoomID)

	case "add-member":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin add-member <room_id> <user_id>")
			os.Exit(1)
		}
		if err := s.AddMemberToRoom(os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("Error adding member: %v", err)
		}
		fmt.Println("Member added.")

	case "remove-member":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin remove-member <room_id> <user_id>")
			os.Exit(1)
		}
		if err := s.RemoveMemberFromRoom(os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("Error removing member: %v", err)
		}
		fmt.Println("Member removed.")

	case "create-session":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin create-session <user_id>")
			os.Exit(1)
		}
		user, err := s.GetUserByID(os.Args[2])
		if err != nil {
			log.Fatalf("Error loading user: %v", err)
		}
		sessionID, err := s.CreateSession(user.ID, user.Email)
		if err != nil {
			log.Fatalf("Error creating session: %v", err)
		}
		fmt.Printf("Session: %s\n", sessionID)

	case "delete-session":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin delete-session <session_id>")
			os.Exit(1)
		}
		if err := s.DeleteSession(os.Args[2]); err != nil {
			log.Fatalf("Error deleting session: %v", err)
		}
		fmt.Println("Session deleted.")

	case "list-members":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin list-members <room_id>")
			os.Exit(1)
		}
		members, err := s.GetRoomMembers(os.Args[2])
		if err != nil {
			log.Fatalf("Error listing members: %v", err)
		}
		for _, m := range members {
			fmt.Printf("%s\t%s\n", m.UserID, m.Role)
		}

	case "link-telegram":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin link-telegram <user_id> <telegram_chat_id>")
			os.Exit(1)
		}
		user, err := s.GetUserByID(os.Args[2])
		if err != nil {
			log.Fatalf("Error loading user: %v", err)
		}
		user.TelegramID = os.Args[3]
		if err := s.SaveUser(user); err != nil {
			log.Fatalf("Error linking telegram: %v", err)
		}
		fmt.Println("Telegram linked.")

	default:
		usage()
	}
}

func usage() {
	fmt.Println("Usage: admin <create-user|create-dm|create-group|add-member|remove-member|list-members|create-session|delete-session|link-telegram> [args]")
	os.Exit(1)
}

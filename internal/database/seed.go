package database

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"friendfinder/backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedInterests = []string{
	"hiking", "reading", "gaming", "cooking", "photography",
	"music", "cycling", "travel", "painting", "climbing",
}

var seedActivities = []string{
	"coffee", "board games", "running", "museums", "live music",
	"football", "yoga", "karaoke",
}

var seedLocations = []struct {
	name string
	lat  float64
	lon  float64
}{
	{"London", 51.5074, -0.1278},
	{"Manchester", 53.4808, -2.2426},
	{"Bristol", 51.4545, -2.5879},
	{"Edinburgh", 55.9533, -3.1883},
}

// SeedTestData resets the database and populates it with demo data.
//
// Behavior:
//  1. Clears all application tables.
//  2. Creates 20 users with hashed passwords, coordinates near one of four
//     cities, and randomized interests, activities and availability.
//  3. Links the first twelve users into friendships, leaves a few requests
//     pending, and seeds a handful of messages and one group chat.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	tables := []string{
		"group_messages", "group_members", "chat_groups",
		"messages", "notifications", "user_matches",
		"friendships", "friend_requests", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
		if db.Dialector.Name() == "sqlite" {
			db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table)
		}
	}
	log.Println("Cleared existing data")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	availability := []string{"weekdays", "weekends", "evenings"}

	for i := 1; i <= 20; i++ {
		city := seedLocations[r.Intn(len(seedLocations))]
		// Jitter of up to roughly two kilometres around the city centre.
		lat := city.lat + (r.Float64()-0.5)*0.04
		lon := city.lon + (r.Float64()-0.5)*0.04
		age := 18 + r.Intn(30)
		lastActive := time.Now().Add(-time.Duration(r.Intn(72)) * time.Hour)

		user := models.User{
			Username:        fmt.Sprintf("user%d", i),
			Email:           fmt.Sprintf("user%d@example.com", i),
			PasswordHash:    string(hash),
			Bio:             fmt.Sprintf("Hi, I'm user%d from %s.", i, city.name),
			Interests:       pickTags(r, seedInterests, 3),
			Activities:      pickTags(r, seedActivities, 2),
			Availability:    availability[r.Intn(len(availability))],
			LookingFor:      "friends",
			Location:        city.name,
			Latitude:        &lat,
			Longitude:       &lon,
			Age:             &age,
			PrivacySettings: models.DefaultPrivacySettings(),
			LastActive:      &lastActive,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}
	log.Println("Seeded 20 users.")

	// Friendships among the first twelve users: pair each with the next two.
	for i := uint(1); i <= 12; i++ {
		for _, offset := range []uint{1, 2} {
			friendID := i + offset
			if friendID > 12 {
				continue
			}
			request := models.FriendRequest{
				SenderID:   i,
				ReceiverID: friendID,
				Status:     models.StatusAccepted,
			}
			if err := db.Create(&request).Error; err != nil {
				return fmt.Errorf("failed to seed friend request: %w", err)
			}
			edges := []models.Friendship{
				{UserID: i, FriendID: friendID},
				{UserID: friendID, FriendID: i},
			}
			if err := db.Create(&edges).Error; err != nil {
				return fmt.Errorf("failed to seed friendship: %w", err)
			}
		}
	}

	// A few pending requests from the later users.
	for i := uint(13); i <= 16; i++ {
		request := models.FriendRequest{
			SenderID:   i,
			ReceiverID: i - 10,
			Status:     models.StatusPending,
		}
		if err := db.Create(&request).Error; err != nil {
			return fmt.Errorf("failed to seed pending request: %w", err)
		}
	}
	log.Println("Seeded friendships and requests.")

	// Direct messages between the first few friend pairs.
	openers := []string{
		"Hey! How's your week going?",
		"Fancy grabbing a coffee this weekend?",
		"Saw you're into hiking too, any trail tips?",
		"Good to match with you!",
	}
	for i := uint(1); i <= 6; i++ {
		for j := 0; j < 3; j++ {
			sender, recipient := i, i+1
			if j%2 == 1 {
				sender, recipient = recipient, sender
			}
			message := models.Message{
				SenderID:    sender,
				RecipientID: recipient,
				Content:     openers[r.Intn(len(openers))],
				Read:        j < 2,
			}
			if err := db.Create(&message).Error; err != nil {
				return fmt.Errorf("failed to seed message: %w", err)
			}
		}
	}

	// One group chat with the first five users.
	group := models.ChatGroup{
		Name:      "Weekend Hikers",
		CreatorID: 1,
		Settings:  models.DefaultGroupSettings(),
	}
	if err := db.Create(&group).Error; err != nil {
		return fmt.Errorf("failed to seed group: %w", err)
	}
	for i := uint(1); i <= 5; i++ {
		member := models.GroupMember{GroupID: group.ID, UserID: i, JoinedAt: time.Now()}
		if err := db.Create(&member).Error; err != nil {
			return fmt.Errorf("failed to seed group member: %w", err)
		}
	}
	for j := 0; j < 4; j++ {
		groupMessage := models.GroupMessage{
			GroupID:  group.ID,
			SenderID: uint(j%5) + 1,
			Content:  fmt.Sprintf("Anyone up for a hike on Saturday? (%d)", j+1),
		}
		if err := db.Create(&groupMessage).Error; err != nil {
			return fmt.Errorf("failed to seed group message: %w", err)
		}
	}
	log.Println("Seeded messages and one group chat.")

	return nil
}

// pickTags returns n random entries from the pool as a comma-separated
// tag string, matching the profile format.
func pickTags(r *rand.Rand, pool []string, n int) string {
	shuffled := append([]string(nil), pool...)
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return strings.Join(shuffled[:n], ", ")
}

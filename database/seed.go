// File: /database/seed.go
package database

import (
	"fitcrew-api/models"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "Password123!"

var workoutTypes = []string{"Strength", "Cardio", "HIIT", "Yoga", "Running", "Cycling"}

// SeedData fills an empty database with demo users, friendships, a group and
// a week of workouts for local development
func SeedData(db *gorm.DB, userCount int, log logrus.FieldLogger) error {
	var existing int64
	if err := db.Model(&models.User{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if existing > 0 {
		log.Info("Database already has data, skipping seed")
		return nil
	}
	if userCount < 2 {
		userCount = 2
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		users := make([]models.User, 0, userCount)
		for i := 0; i < userCount; i++ {
			level := gofakeit.RandomString([]string{"beginner", "intermediate", "advanced"})
			users = append(users, models.User{
				ID:                   uuid.New().String(),
				FullName:             gofakeit.Name(),
				Email:                fmt.Sprintf("demo%d@fitcrew.app", i+1),
				Password:             string(hashed),
				FitnessLevel:         &level,
				AllowFriendRequests:  true,
				ShowWorkoutToFriends: true,
				CompeteInLeaderboard: true,
				IsActive:             true,
			})
		}
		if err := tx.Create(&users).Error; err != nil {
			return fmt.Errorf("seed users: %w", err)
		}

		// everyone is friends with the first user
		for _, u := range users[1:] {
			f := models.Friendship{
				RequesterID: users[0].ID,
				AddresseeID: u.ID,
				Status:      models.FriendshipStatusAccepted,
			}
			if err := tx.Create(&f).Error; err != nil {
				return fmt.Errorf("seed friendship: %w", err)
			}
		}

		group := models.Group{
			ID:          uuid.New().String(),
			Name:        "Morning Crew",
			Description: "Early birds who train before work",
			CreatedBy:   users[0].ID,
		}
		if err := tx.Create(&group).Error; err != nil {
			return fmt.Errorf("seed group: %w", err)
		}
		for i, u := range users {
			role := models.GroupRoleMember
			if i == 0 {
				role = models.GroupRoleAdmin
			}
			if err := tx.Create(&models.GroupMember{GroupID: group.ID, UserID: u.ID, Role: role}).Error; err != nil {
				return fmt.Errorf("seed membership: %w", err)
			}
		}

		today := time.Now()
		for _, u := range users {
			logged := 0
			for day := 0; day < 7; day++ {
				if !gofakeit.Bool() {
					continue
				}
				wType := gofakeit.RandomString(workoutTypes)
				duration := gofakeit.Number(20, 90)
				calories := duration * gofakeit.Number(6, 12)
				w := models.Workout{
					ID:             uuid.New().String(),
					UserID:         u.ID,
					WorkoutName:    wType + " session",
					WorkoutType:    &wType,
					Duration:       &duration,
					CaloriesBurned: &calories,
					WorkoutDate:    today.AddDate(0, 0, -day).Format(models.DateLayout),
					IsPublic:       true,
				}
				if err := tx.Omit("Exercises").Create(&w).Error; err != nil {
					return fmt.Errorf("seed workout: %w", err)
				}
				logged++
			}
			if err := tx.Model(&models.User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
				"total_workouts": logged,
				"total_points":   logged * models.WorkoutPoints,
			}).Error; err != nil {
				return fmt.Errorf("seed counters: %w", err)
			}
		}

		log.WithField("users", userCount).Info("Database seeded with demo data")
		return nil
	})
}

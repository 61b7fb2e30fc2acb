package setup

import (
	"fmt"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MigrateDB creates or updates every table and seeds the catalogs and the
// default lobby rooms on an empty database.
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}
	err := db.AutoMigrate(
		&domain.User{},
		&domain.LobbyRoom{},
		&domain.Weapon{},
		&domain.Skin{},
		&domain.Sticker{},
		&domain.Loadout{},
		&domain.LoadoutVote{},
		&domain.RoundRecord{},
		&domain.Game{},
		&domain.Clip{},
		&domain.ClipLike{},
		&domain.Follow{},
	)
	if err != nil {
		logrus.Errorf("Failed to auto-migrate tables: %v", err)
		return fmt.Errorf("failed to auto-migrate tables: %w", err)
	}
	if err := Seed(db); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	logrus.Info("Database migration completed successfully")
	return nil
}

var (
	seedWeapons = []domain.Weapon{
		{ID: "weapon1", Name: "AK-47", Type: "Rifle", Image: "/static/assets/weapons/ak47.png"},
		{ID: "weapon2", Name: "M4A4", Type: "Rifle", Image: "/static/assets/weapons/m4a4.png"},
		{ID: "weapon3", Name: "AWP", Type: "Sniper", Image: "/static/assets/weapons/awp.png"},
		{ID: "weapon4", Name: "Desert Eagle", Type: "Pistol", Image: "/static/assets/weapons/deagle.png"},
	}
	seedSkins = []domain.Skin{
		{ID: "skin1", Name: "Neon Rider", WeaponID: "weapon1", Rarity: "Covert", Image: "/static/assets/skins/ak47_neon_rider.png"},
		{ID: "skin2", Name: "Asiimov", WeaponID: "weapon2", Rarity: "Covert", Image: "/static/assets/skins/m4a4_asiimov.png"},
		{ID: "skin3", Name: "Dragon Lore", WeaponID: "weapon3", Rarity: "Covert", Image: "/static/assets/skins/awp_dragon_lore.png"},
		{ID: "skin4", Name: "Blaze", WeaponID: "weapon4", Rarity: "Restricted", Image: "/static/assets/skins/deagle_blaze.png"},
	}
	seedStickers = []domain.Sticker{
		{ID: "sticker1", Name: "Miamo Flow (Holo)", Rarity: "Exotic", Image: "/static/assets/stickers/miamo_flow_holo.png"},
		{ID: "sticker2", Name: "Entropiq (Holo)", Rarity: "Exotic", Image: "/static/assets/stickers/entropiq_holo.png"},
		{ID: "sticker3", Name: "Lit (Holo)", Rarity: "Exotic", Image: "/static/assets/stickers/lit_holo.png"},
	}
	seedGames = []domain.Game{
		{ID: "game1", Name: "Fortnite"},
		{ID: "game2", Name: "Call of Duty"},
		{ID: "game3", Name: "League of Legends"},
		{ID: "game4", Name: "CS2"},
		{ID: "game5", Name: "Valorant"},
	}
	seedLobbyRooms = []domain.LobbyRoom{
		{ID: "room1", Name: "Sala #1", Category: "Tecnologia", Players: 8, MaxPlayers: domain.DefaultLobbyCapacity, Status: domain.LobbyStatusPlaying},
		{ID: "room2", Name: "Sala #2", Category: "Jogos", Players: 12, MaxPlayers: domain.DefaultLobbyCapacity, Status: domain.LobbyStatusPlaying},
		{ID: "room3", Name: "Sala #3", Category: "Filmes", Players: 5, MaxPlayers: domain.DefaultLobbyCapacity, Status: domain.LobbyStatusPlaying},
	}
)

// Seed inserts the default catalogs and lobby rooms into empty tables.
// Tables that already hold rows are left alone.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedIfEmpty(tx, &domain.Weapon{}, &seedWeapons); err != nil {
			return err
		}
		if err := seedIfEmpty(tx, &domain.Skin{}, &seedSkins); err != nil {
			return err
		}
		if err := seedIfEmpty(tx, &domain.Sticker{}, &seedStickers); err != nil {
			return err
		}
		if err := seedIfEmpty(tx, &domain.Game{}, &seedGames); err != nil {
			return err
		}
		return seedIfEmpty(tx, &domain.LobbyRoom{}, &seedLobbyRooms)
	})
}

func seedIfEmpty(tx *gorm.DB, model interface{}, rows interface{}) error {
	var count int64
	if err := tx.Model(model).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if err := tx.Create(rows).Error; err != nil {
		return err
	}
	logrus.WithField("table", fmt.Sprintf("%T", model)).Info("Seeded table")
	return nil
}

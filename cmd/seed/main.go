// Seeds a development database with demo pairs and stream data.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/brianvoe/gofakeit/v6"

	"atlas/config"
	"atlas/db"
	"atlas/models"
	"atlas/services"
)

func friendCode() string {
	return "ATLAS-" + strings.ToUpper(gofakeit.LetterN(6))
}

func main() {
	var configPath string
	var pairs int
	flag.StringVar(&configPath, "config", "config/config.yaml", "Path to the configuration file")
	flag.IntVar(&pairs, "pairs", 3, "Number of demo pairs to create")
	flag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	conn, err := db.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to the database: %v", err)
	}

	ctx := context.Background()
	users := services.NewUserService(conn)
	pairing := services.NewPairingService(conn)
	presence := services.NewPresenceService(conn, nil)
	messages := services.NewMessageService(conn, nil, nil)
	pokes := services.NewPokeService(conn, nil)
	memories := services.NewMemoryService(conn, nil)
	gacha := services.NewGachaService(conn)

	for i := 0; i < pairs; i++ {
		a, err := users.Register(ctx, friendCode(), gofakeit.FirstName(), nil)
		if err != nil {
			log.Fatalf("failed to register user: %v", err)
		}
		b, err := users.Register(ctx, friendCode(), gofakeit.FirstName(), nil)
		if err != nil {
			log.Fatalf("failed to register user: %v", err)
		}
		if _, err := pairing.Link(ctx, a, b.FriendCode); err != nil {
			log.Fatalf("failed to link pair: %v", err)
		}

		status := "online"
		game := gofakeit.RandomString([]string{"Genshin Impact", "Honkai: Star Rail", "VALORANT"})
		mood := gofakeit.Sentence(4)
		if _, err := presence.Update(ctx, a.ID, services.PresenceUpdate{
			Status:      &status,
			CurrentGame: &game,
			MoodMessage: &mood,
		}); err != nil {
			log.Fatalf("failed to seed presence: %v", err)
		}

		for m := 0; m < 5; m++ {
			sender, receiver := a, b
			if m%2 == 1 {
				sender, receiver = b, a
			}
			if _, err := messages.Send(ctx, sender.ID, receiver.ID, gofakeit.Sentence(8)); err != nil {
				log.Fatalf("failed to seed message: %v", err)
			}
		}

		if _, err := pokes.Send(ctx, a.ID, b.ID, "❤️"); err != nil {
			log.Fatalf("failed to seed poke: %v", err)
		}

		note := gofakeit.Sentence(6)
		if _, err := memories.Create(ctx, a.ID, b.ID, services.CreateMemoryInput{
			Type:        models.MemoryNote,
			ContentText: &note,
		}); err != nil {
			log.Fatalf("failed to seed memory: %v", err)
		}

		if _, err := gacha.Upsert(ctx, a.ID, services.UpsertStatsInput{
			Game:          game,
			TotalPulls:    int64(gofakeit.Number(100, 2000)),
			FiveStarCount: int64(gofakeit.Number(0, 20)),
			FourStarCount: int64(gofakeit.Number(10, 200)),
			AveragePity:   gofakeit.Float64Range(30, 80),
			CurrentPity:   int64(gofakeit.Number(0, 89)),
		}); err != nil {
			log.Fatalf("failed to seed gacha stats: %v", err)
		}

		fmt.Printf("pair %d: %s (%s) <-> %s (%s)\n", i+1, a.DisplayName, a.FriendCode, b.DisplayName, b.FriendCode)
		fmt.Printf("  token A: %s\n  token B: %s\n", a.Token, b.Token)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"

	"bookstore/internal/book"
	"bookstore/internal/config"
	"bookstore/internal/platform/logger"
	"bookstore/internal/platform/postgres"
	"bookstore/internal/seller"

	"github.com/sirupsen/logrus"
)

var (
	firstNames = []string{"John", "Ivan", "Anna", "Maria", "Peter", "Olga", "Sergey", "Elena"}
	lastNames  = []string{"Ivanov", "Petrov", "Sidorova", "Smirnova", "Kuznetsov", "Popova"}
	authors    = []string{"Dostoevsky", "Tolstoy", "Chekhov", "Pushkin", "Gogol", "Bulgakov"}
	titleWords = []string{"Idiot", "Demons", "Gambler", "Overcoat", "Nose", "Master", "Seagull", "Journey"}
)

func main() {
	var (
		sellers = flag.Int("sellers", 10, "Number of sellers to create")
		books   = flag.Int("books", 5, "Books per seller")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg := config.Load()
	log := logger.New(cfg.AppName+"-seed", cfg.Env)

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBDSN, cfg.DBMaxConns, 0, cfg.DBMaxConnLife)
	if err != nil {
		log.WithField("dsn", postgres.RedactDSN(cfg.DBDSN)).Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	sellerService := seller.NewService(seller.NewPostgresRepo(pool, cfg.DBTimeout), seller.WithLogger(log))
	bookService := book.NewService(book.NewPostgresRepo(pool, cfg.DBTimeout), book.WithLogger(log))

	rng := rand.New(rand.NewSource(1))
	if err := seed(ctx, sellerService, bookService, rng, *sellers, *books, log); err != nil {
		log.Fatal(err)
	}
}

func seed(ctx context.Context, sellers *seller.Service, books *book.Service, rng *rand.Rand, sellerCount, booksPerSeller int, log logrus.FieldLogger) error {
	log.Infof("Generating %d sellers with %d books each...", sellerCount, booksPerSeller)

	for i := 0; i < sellerCount; i++ {
		created, err := sellers.Create(ctx, randomSeller(rng, i))
		if err != nil {
			return fmt.Errorf("create seller %d: %w", i+1, err)
		}
		for j := 0; j < booksPerSeller; j++ {
			if _, err := books.Create(ctx, randomBook(rng, created.ID)); err != nil {
				return fmt.Errorf("create book for seller %d: %w", created.ID, err)
			}
		}
	}

	all, err := sellers.ListAll(ctx)
	if err != nil {
		return err
	}
	log.WithField("total_sellers", len(all.Sellers)).Info("Seeding finished")
	return nil
}

func randomSeller(rng *rand.Rand, i int) seller.IncomingSeller {
	first := firstNames[rng.Intn(len(firstNames))]
	last := lastNames[rng.Intn(len(lastNames))]
	return seller.IncomingSeller{
		BaseSeller: seller.BaseSeller{
			FirstName: first,
			LastName:  last,
			Email:     fmt.Sprintf("%s_%s_%d@mail.ru", last, first, i+1),
		},
		Password: fmt.Sprintf("seed_%06d", rng.Intn(1000000)),
	}
}

func randomBook(rng *rand.Rand, sellerID int64) book.IncomingBook {
	return book.IncomingBook{
		Title:      titleWords[rng.Intn(len(titleWords))] + " " + titleWords[rng.Intn(len(titleWords))],
		Author:     authors[rng.Intn(len(authors))],
		Year:       1820 + rng.Intn(200),
		CountPages: 50 + rng.Intn(900),
		SellerID:   sellerID,
	}
}

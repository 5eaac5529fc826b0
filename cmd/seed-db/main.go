package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/auth"
	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/catalog"
	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/repository"
)

type productJSON struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	SKU         string          `json:"sku"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Inventory   int             `json:"inventory"`
}

type collectionJSON struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Products    []productJSON `json:"products"`
}

type catalogJSON struct {
	Collections []collectionJSON `json:"collections"`
}

func main() {
	var (
		databaseURL  string
		catalogFile  string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/catalog.json", "path to catalog JSON file")
	flag.StringVar(&apiKey, "api-key", "", "staff API key to seed (or STORE_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or STORE_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("STORE_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or STORE_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("STORE_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedCatalog(ctx, pool, catalogFile); err != nil {
		return errors.Wrap(err, "seed catalog")
	}

	if err := seedAPIKey(ctx, pool, apiKey, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

// seedCatalog creates the collections and products from the catalog file.
// Reruns are skipped by title and slug so the command stays idempotent.
func seedCatalog(ctx context.Context, pool *pgxpool.Pool, catalogFile string) error {
	slog.Info("reading catalog file", slog.String("path", catalogFile))

	data, err := os.ReadFile(catalogFile)
	if err != nil {
		return errors.Wrap(err, "read catalog file")
	}

	var cat catalogJSON
	if err := json.Unmarshal(data, &cat); err != nil {
		return errors.Wrap(err, "parse catalog JSON")
	}

	collections := repository.NewCollectionRepository(pool)
	products := repository.NewProductRepository(pool)

	existingCollections, err := collections.List(ctx)
	if err != nil {
		return errors.Wrap(err, "list collections")
	}
	collectionIDs := make(map[string]int64, len(existingCollections))
	for _, c := range existingCollections {
		collectionIDs[c.Title] = c.ID
	}

	existingProducts, err := products.List(ctx, catalog.ProductFilter{})
	if err != nil {
		return errors.Wrap(err, "list products")
	}
	productSlugs := make(map[string]struct{}, len(existingProducts))
	for _, p := range existingProducts {
		productSlugs[p.Slug] = struct{}{}
	}

	for _, cj := range cat.Collections {
		id, ok := collectionIDs[cj.Title]
		if !ok {
			c := catalog.Collection{Title: cj.Title, Description: cj.Description}
			if err := collections.Create(ctx, &c); err != nil {
				return errors.Wrapf(err, "create collection %s", cj.Title)
			}
			id = c.ID
			slog.Info("created collection", slog.String("title", cj.Title))
		}

		for _, pj := range cj.Products {
			if _, ok := productSlugs[slug.Make(pj.Title)]; ok {
				continue
			}
			collectionID := id
			p := catalog.Product{
				Title:        pj.Title,
				Description:  pj.Description,
				SKU:          pj.SKU,
				UnitPrice:    pj.UnitPrice,
				Inventory:    pj.Inventory,
				CollectionID: &collectionID,
			}
			p.EnsureSlug()
			if err := products.Create(ctx, &p); err != nil {
				return errors.Wrapf(err, "create product %s", pj.Title)
			}
			slog.Info("created product", slog.String("title", pj.Title), slog.String("slug", p.Slug))
		}
	}

	return nil
}

func seedAPIKey(ctx context.Context, pool *pgxpool.Pool, apiKey, pepper string) error {
	slog.Info("seeding staff API key")

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(apiKey))
	keyHash := hex.EncodeToString(mac.Sum(nil))

	apikeys := repository.NewAPIKeyRepository(pool)
	if err := apikeys.Upsert(ctx, &auth.APIKeyInfo{
		ID:      "seed-staff",
		KeyHash: keyHash,
		Name:    "Seeded staff key",
		UserID:  "seed-staff",
		Role:    auth.RoleStaff,
	}); err != nil {
		return errors.Wrap(err, "upsert staff API key")
	}

	slog.Info("upserted API key", slog.String("id", "seed-staff"))

	return nil
}

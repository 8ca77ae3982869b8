package app

import (
	"net/http"

	"gorm.io/gorm"

	feedcolibri "github.com/casaelena/colibrisync/internal/adapters/feed/colibri"
	"github.com/casaelena/colibrisync/internal/adapters/httpserver"
	ledgercolibri "github.com/casaelena/colibrisync/internal/adapters/ledger/colibri"
	"github.com/casaelena/colibrisync/internal/adapters/notify"
	"github.com/casaelena/colibrisync/internal/adapters/repo/postgres"
	"github.com/casaelena/colibrisync/internal/config"
	"github.com/casaelena/colibrisync/internal/domain"
	"github.com/casaelena/colibrisync/internal/usecase"
	"github.com/casaelena/colibrisync/internal/worker"
)

// App wires repositories, clients and usecases. Everything hangs off this
// struct; there is no package-level state beyond the logger.
type App struct {
	DB  *gorm.DB
	Cfg *config.Config

	SyncUC     *usecase.SyncUC
	BatchUC    *usecase.BatchUC
	CheckoutUC *usecase.CheckoutUC
	GiftCardUC *usecase.GiftCardUC
	ReportUC   *usecase.ReportUC
	Worker     *worker.Worker
}

func NewApp(db *gorm.DB, cfg *config.Config) (*App, error) {
	prodRepo := postgres.NewProductRepo(db)
	mediaRepo := postgres.NewMediaRepo(db)
	termRepo := postgres.NewTermRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	stateRepo := postgres.NewSyncStateRepo(db)

	feed := feedcolibri.NewClient(cfg.FeedBaseURL)
	ledger := ledgercolibri.NewClient(cfg.LedgerBaseURL)
	mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SupportEmail, cfg.CCEmails)

	a := &App{DB: db, Cfg: cfg}
	a.SyncUC = &usecase.SyncUC{
		Products:      prodRepo,
		Media:         mediaRepo,
		Terms:         termRepo,
		Feed:          feed,
		Notify:        mailer,
		UploadBaseURL: cfg.UploadBaseURL,
	}
	a.BatchUC = &usecase.BatchUC{
		Feed:     feed,
		Sync:     a.SyncUC,
		Notify:   mailer,
		PageSize: cfg.Sync.PageSize,
	}
	a.CheckoutUC = &usecase.CheckoutUC{Orders: orderRepo, Ledger: ledger}
	a.GiftCardUC = &usecase.GiftCardUC{
		Orders:     orderRepo,
		Ledger:     ledger,
		Amounts:    cfg.Sync.VoucherAmounts,
		FallbackID: cfg.Sync.VoucherFallbackID,
	}
	a.ReportUC = &usecase.ReportUC{Products: prodRepo, Notify: mailer, ReportsDir: cfg.ReportsDir}
	a.Worker = worker.New(a.BatchUC, stateRepo, cfg.Sync)

	return a, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.SyncUC, a.CheckoutUC, a.GiftCardUC, a.ReportUC, a.Worker, a.Cfg.AdminToken)
}

func (a *App) Migrate() error {
	return a.DB.AutoMigrate(
		&domain.Product{},
		&domain.Variation{},
		&domain.MediaAsset{},
		&domain.AttributeTaxonomy{},
		&domain.AttributeTerm{},
		&domain.Category{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.SyncState{},
	)
}

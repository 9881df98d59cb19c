package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "peptide-tracker/docs"
	"peptide-tracker/internal/adapters/render"
	mem "peptide-tracker/internal/adapters/storage/memory"
	"peptide-tracker/internal/adapters/storage/sqlstore"
	"peptide-tracker/internal/domain/calculator"
	"peptide-tracker/internal/domain/compounds"
	"peptide-tracker/internal/domain/doses"
	"peptide-tracker/internal/domain/insights"
	"peptide-tracker/internal/domain/protocols"
	"peptide-tracker/internal/domain/wellness"
	"peptide-tracker/internal/kinetics"
	"peptide-tracker/internal/middleware"
	"peptide-tracker/internal/platform/config"
	"peptide-tracker/internal/platform/logger"
	"peptide-tracker/internal/ports/auth"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // nil means dev mode
	Logger       logger.Logger

	// DB selects the SQL repositories; nil keeps everything in memory.
	DB *sqlstore.DB

	Storage config.StorageConfig
	Charts  config.ChartsConfig
}

// Services is everything the router and the background workers share.
type Services struct {
	Compounds *compounds.Service
	Doses     *doses.Service
	Protocols *protocols.Service
	Wellness  *wellness.Service
	Insights  *insights.Service
}

// NewServices wires repositories and services and seeds the compound
// library when the storage config asks for it.
func NewServices(ctx context.Context, opts Options) (*Services, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	var (
		compoundRepo compounds.Repository
		doseRepo     doses.Repository
		protocolRepo protocols.Repository
		wellnessRepo wellness.Repository
	)
	if opts.DB != nil {
		compoundRepo = sqlstore.NewCompoundsRepo(opts.DB)
		doseRepo = sqlstore.NewDosesRepo(opts.DB)
		protocolRepo = sqlstore.NewProtocolsRepo(opts.DB)
		wellnessRepo = sqlstore.NewWellnessRepo(opts.DB)
	} else {
		compoundRepo = mem.NewCompoundRepo()
		doseRepo = mem.NewDoseRepo()
		protocolRepo = mem.NewProtocolRepo()
		wellnessRepo = mem.NewWellnessRepo()
	}

	compoundsSvc := compounds.NewService(compoundRepo)
	if opts.Storage.SeedCatalog {
		n, err := compoundsSvc.Seed(ctx)
		if err != nil {
			return nil, err
		}
		log.Info("compound catalog seeded", map[string]any{"count": n})
	}

	dosesSvc := doses.NewService(doseRepo, compoundsSvc, log)
	protocolsSvc := protocols.NewService(protocolRepo, compoundsSvc)

	charts := withChartDefaults(opts.Charts)
	insightsSvc := insights.NewService(dosesSvc, compoundsSvc, protocolsSvc,
		render.NewPNG(render.DefaultOptions()),
		insights.Options{
			Short:       kinetics.NewSimulator(charts.ShortFallbackHours),
			Long:        kinetics.NewSimulator(charts.LongFallbackHours),
			RecentLimit: charts.RecentDoseLimit,
		})

	return &Services{
		Compounds: compoundsSvc,
		Doses:     dosesSvc,
		Protocols: protocolsSvc,
		Wellness:  wellness.NewService(wellnessRepo),
		Insights:  insightsSvc,
	}, nil
}

func withChartDefaults(c config.ChartsConfig) config.ChartsConfig {
	d := config.Default().Charts
	if c.ShortFallbackHours <= 0 {
		c.ShortFallbackHours = d.ShortFallbackHours
	}
	if c.LongFallbackHours <= 0 {
		c.LongFallbackHours = d.LongFallbackHours
	}
	if c.RecentDoseLimit <= 0 {
		c.RecentDoseLimit = d.RecentDoseLimit
	}
	return c
}

func NewRouter(opts Options, svc *Services) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	// claims first so the access log sees the user
	r.Use(middleware.AuthContext(opts.AuthVerifier))
	r.Use(middleware.AccessLog(log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	compounds.RegisterRoutes(r, svc.Compounds)
	doses.RegisterRoutes(r, svc.Doses)
	protocols.RegisterRoutes(r, svc.Protocols)
	wellness.RegisterRoutes(r, svc.Wellness)
	insights.RegisterRoutes(r, svc.Insights)
	calculator.RegisterRoutes(r)

	return r
}

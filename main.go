package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	auth "Slope/internal/auth"
	"Slope/internal/calc/premium/autodesign"
	"Slope/internal/calc/premium/batch"
	"Slope/internal/calc/premium/importer"
	"Slope/internal/calc/render"
	"Slope/internal/calc/report"
	"Slope/internal/calc/slope"
	"Slope/internal/config"
	"Slope/internal/history"
	"Slope/internal/log"
	repo "Slope/internal/repo"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

type store interface {
	repo.UserStore
	repo.AnalysisStore
}

// openStore connects to PostgreSQL and migrates the schema, or returns the
// in-process store when DATABASE_URL is "memory".
func openStore(ctx context.Context, cfg config.Config) (store, func(), error) {
	if cfg.DatabaseURL == config.MemoryDSN {
		log.Warnf("DATABASE_URL=%s: analyses are kept in memory only", config.MemoryDSN)
		return repo.NewMemory(), func() {}, nil
	}
	db, err := repo.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	pg := repo.NewPostgres(db)
	if err := pg.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return pg, func() { db.Close() }, nil
}

func HandleList(mux *mux.Router, cfg config.Config, st store) {
	logger := log.GetSugaredLogger()
	searcher := slope.Searcher{Workers: cfg.SearchWorkers, Slices: cfg.SearchSlices, Quick: cfg.SearchQuick, Log: logger}

	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), Repo: st, Log: logger}
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	slopeH := &slope.Handler{Searcher: searcher, Store: st, Log: logger}
	api.HandleFunc("/slope/calc", slopeH.Calc).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	historyH := &history.Handler{Repo: st, Log: logger}
	secureApi.HandleFunc("/analyses", historyH.List).Methods("GET")
	secureApi.HandleFunc("/analyses/{id}", historyH.Get).Methods("GET")

	renderH := &render.Handler{Searcher: searcher, Log: logger}
	reportH := &report.Handler{Searcher: searcher, Log: logger}
	batchH := &batch.Handler{Searcher: searcher}
	importH := &importer.Handler{Searcher: searcher}
	autoH := &autodesign.Handler{Searcher: searcher}

	secureApi.HandleFunc("/tools/slope/calc", slopeH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/slope/fos", slopeH.FoS).Methods("POST")
	secureApi.HandleFunc("/tools/slope/plot", renderH.PNG).Methods("POST")
	secureApi.HandleFunc("/tools/slope/dxf", renderH.DXF).Methods("POST")
	secureApi.HandleFunc("/tools/slope/autodesign", autoH.Slope).Methods("POST")
	secureApi.HandleFunc("/tools/slope/batch", batchH.Slopes).Methods("POST")
	secureApi.HandleFunc("/tools/slope/circles", batchH.Circles).Methods("POST")
	secureApi.HandleFunc("/tools/slope/import", importH.Slopes).Methods("POST")
	secureApi.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")

	authFileServer := http.FileServer(http.Dir("./static/auth"))
	mux.PathPrefix("/auth/").
		Handler(authEnv.RedirectIfLoggedIn(http.StripPrefix("/auth", authFileServer)))
	mainFileServer := http.FileServer(http.Dir("./static/main"))
	mux.PathPrefix("/").
		Handler(mainFileServer)
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic(err)
	}
	if err := log.Init(cfg.Debug); err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Debugw("configuration loaded",
		"addr", cfg.Addr,
		"tls", cfg.TLS,
		"search_workers", cfg.SearchWorkers,
		"search_slices", cfg.SearchSlices,
		"search_quick", cfg.SearchQuick,
		"rate_limit", cfg.RateLimit,
		"rate_burst", cfg.RateBurst)
	if cfg.TokenKey == "" {
		log.Fatalf("TOKEN_KEY environment variable is not set")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer closeStore()

	router := mux.NewRouter()
	HandleList(router, cfg, st)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           CORS(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Infow("starting server", "addr", cfg.Addr, "tls", cfg.TLS, "workers", cfg.SearchWorkers)
	wg.Add(1)
	go func() {
		defer wg.Done()
		var err error
		if cfg.TLS {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("server error: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Infof("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server shutdown: %v", err)
	}
	wg.Wait()
	log.Infof("server stopped")
}

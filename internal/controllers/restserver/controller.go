package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/muadhin/internal/log"
	"github.com/chrissnell/muadhin/internal/preferences"
	"github.com/chrissnell/muadhin/internal/timetable"
	"github.com/chrissnell/muadhin/pkg/config"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.RESTServerData
	Server     http.Server
	Locations  []config.LocationData
	Table      *timetable.Timetable
	Prefs      preferences.Store
	logger     *zap.SugaredLogger
	handlers   *Handlers
	now        func() time.Time
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg *config.ConfigData, table *timetable.Timetable, prefs preferences.Store, logger *zap.SugaredLogger) (*Controller, error) {
	if table == nil || prefs == nil {
		return nil, fmt.Errorf("REST server needs a timetable and a preference store")
	}

	rc := cfg.REST
	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		restConfig: rc,
		Locations:  cfg.Locations,
		Table:      table,
		Prefs:      prefs,
		logger:     logger,
		now:        time.Now,
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if rc.ListenAddr == "" {
		logger.Info("rest.listen-addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		rc.ListenAddr = "0.0.0.0"
	}

	// Set default HTTP port if not specified
	if rc.Port == 0 {
		logger.Info("rest.port not provided; defaulting to 8080")
		rc.Port = 8080
	}

	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", rc.ListenAddr, rc.Port)
	ctrl.Server.Handler = ctrl.setupRouter()

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Info("Starting REST server controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		log.Infof("REST server listening on %s", c.Server.Addr)
		if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
			log.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// Handler returns the routed handler the server serves
func (c *Controller) Handler() http.Handler {
	return c.Server.Handler
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(log.HTTPMiddleware)

	router.HandleFunc("/healthz", c.handlers.GetHealth).Methods(http.MethodGet)
	router.HandleFunc("/times", c.handlers.GetTimes).Methods(http.MethodGet)
	router.HandleFunc("/locations", c.handlers.GetLocations).Methods(http.MethodGet)
	router.HandleFunc("/locations/{name}/times", c.handlers.GetLocationTimes).Methods(http.MethodGet)
	router.HandleFunc("/locations/{name}/next", c.handlers.GetNextPrayer).Methods(http.MethodGet)
	router.HandleFunc("/locations/{name}/preferences", c.handlers.GetPreferences).Methods(http.MethodGet)
	router.HandleFunc("/locations/{name}/preferences/{prayer}", c.handlers.GetPreference).Methods(http.MethodGet)
	router.HandleFunc("/locations/{name}/preferences/{prayer}", c.handlers.SetPreference).Methods(http.MethodPut)

	return router
}

// location looks up a configured location by name
func (c *Controller) location(name string) (config.LocationData, bool) {
	for _, l := range c.Locations {
		if l.Name == name {
			return l, true
		}
	}
	return config.LocationData{}, false
}

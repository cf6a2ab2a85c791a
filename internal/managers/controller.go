package managers

import (
	"context"
	"fmt"
	"sync"

	"github.com/chrissnell/muadhin/internal/adhan"
	"github.com/chrissnell/muadhin/internal/controllers/restserver"
	"github.com/chrissnell/muadhin/pkg/config"
	"go.uber.org/zap"
)

// ControllerManager interface for the controller manager
type ControllerManager interface {
	StartControllers() error
}

// Controller is an interface that provides standard methods for various controller backends
type Controller interface {
	StartController() error
}

// NewControllerManager creates a new controller manager
func NewControllerManager(ctx context.Context, wg *sync.WaitGroup, c *config.ConfigData, sm *StorageManager, logger *zap.SugaredLogger) (ControllerManager, error) {
	cm := &controllerManager{
		ctx:         ctx,
		wg:          wg,
		config:      c,
		storage:     sm,
		logger:      logger,
		controllers: make([]Controller, 0),
	}

	if c.Adhan.Enabled {
		controller, err := cm.createAdhanController()
		if err != nil {
			return nil, fmt.Errorf("error creating adhan controller: %v", err)
		}
		cm.controllers = append(cm.controllers, controller)
	}

	if c.REST.Enabled {
		controller, err := restserver.NewController(ctx, wg, c, sm.Timetable, sm.Preferences, logger)
		if err != nil {
			return nil, fmt.Errorf("error creating REST controller: %v", err)
		}
		cm.controllers = append(cm.controllers, controller)
	}

	return cm, nil
}

type controllerManager struct {
	ctx         context.Context
	wg          *sync.WaitGroup
	config      *config.ConfigData
	storage     *StorageManager
	logger      *zap.SugaredLogger
	controllers []Controller
}

func (c *controllerManager) StartControllers() error {
	c.logger.Info("Starting controller manager...")

	for _, controller := range c.controllers {
		err := controller.StartController()
		if err != nil {
			return fmt.Errorf("error starting controller: %v", err)
		}
	}

	c.logger.Infof("Started %d controllers successfully", len(c.controllers))
	return nil
}

// adhanController runs the scheduler under the manager's context
type adhanController struct {
	ctx       context.Context
	wg        *sync.WaitGroup
	scheduler *adhan.Scheduler
}

func (a *adhanController) StartController() error {
	a.scheduler.Start(a.ctx, a.wg)
	return nil
}

func (cm *controllerManager) createAdhanController() (Controller, error) {
	player, err := adhan.NewPlayer(cm.config.Adhan, cm.logger)
	if err != nil {
		return nil, err
	}
	announcer := adhan.NewAnnouncer(cm.storage.Preferences, player, adhan.CuesFromConfig(cm.config.Adhan), cm.logger)
	scheduler := adhan.NewScheduler(cm.config.Locations, cm.storage.Timetable, announcer, cm.logger)
	return &adhanController{ctx: cm.ctx, wg: cm.wg, scheduler: scheduler}, nil
}

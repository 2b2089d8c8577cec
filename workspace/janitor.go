package workspace

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/yaoapp/kun/log"
)

// Janitor periodically sweeps stale workspaces
type Janitor struct {
	manager *Manager
	ttl     time.Duration
	cron    *cron.Cron
	id      cron.EntryID
	Enabled bool
}

// NewJanitor create a janitor running on a cron spec, e.g. "@every 10m"
func NewJanitor(manager *Manager, spec string, ttl time.Duration) (*Janitor, error) {
	j := &Janitor{manager: manager, ttl: ttl}

	c := cron.New()
	id, err := c.AddFunc(spec, j.Run)
	if err != nil {
		return nil, err
	}

	j.cron = c
	j.id = id
	return j, nil
}

// Run sweeps once
func (j *Janitor) Run() {
	removed, err := j.manager.Sweep(j.ttl)
	if err != nil {
		log.Error("[Janitor] %s", err.Error())
		return
	}
	if removed > 0 {
		log.Info("[Janitor] removed %d stale workspaces", removed)
	}
}

// Start start the janitor
func (j *Janitor) Start() {
	j.Enabled = true
	j.cron.Start()
}

// Stop stop the janitor
func (j *Janitor) Stop() {
	j.Enabled = false
	<-j.cron.Stop().Done()
}

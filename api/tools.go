package api

import (
	"sync"
	"time"

	"github.com/allkit/docapi/shell"
	lru "github.com/hashicorp/golang-lru"
	"github.com/yaoapp/kun/log"
)

// inspectTTL how long a tool inspection stays fresh
const inspectTTL = 30 * time.Second

type inspection struct {
	at     time.Time
	status map[string]*shell.ToolStatus
}

// inspector runs the engines' version probes at most once per inspectTTL
type inspector struct {
	tools []shell.Tool
	cache *lru.ARCCache
	mu    sync.Mutex
	now   func() time.Time
}

func newInspector(tools []shell.Tool) *inspector {
	cache, err := lru.NewARC(len(tools) + 1)
	if err != nil {
		log.Error("[API] tool cache: %s", err.Error())
	}
	return &inspector{tools: tools, cache: cache, now: time.Now}
}

func (i *inspector) inspect() map[string]*shell.ToolStatus {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.cache != nil {
		if value, has := i.cache.Get("tools"); has {
			if cached, ok := value.(inspection); ok && i.now().Sub(cached.at) < inspectTTL {
				return cached.status
			}
		}
	}

	status := shell.Inspect(i.tools...)
	if i.cache != nil {
		i.cache.Add("tools", inspection{at: i.now(), status: status})
	}
	return status
}

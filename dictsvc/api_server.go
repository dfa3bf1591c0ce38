package main

import (
	"crypto/tls"
	"errors"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/patrickmn/go-cache"
	"github.com/shirou/gopsutil/v4/process"
	log "github.com/sirupsen/logrus"

	"gendict/utils"
)

type ApiServer struct {
	Myconfig *MyConfig
	app      *fiber.App
	dictHdl  *DictHandler
	loadHdl  *LoadHandler
	ln       net.Listener
	mu       sync.Mutex // guards app and ln between Serve and Stop

	mycache *cache.Cache
}

// NewLoaders builds the loaders of every enabled sink.
func NewLoaders(myconfig *MyConfig) (map[string]Loader, error) {
	loaders := make(map[string]Loader)
	for name, dbconfig := range map[string]*DBConfig{
		"mysql":      &myconfig.MysqlConfig,
		"postgresql": &myconfig.PgConfig,
		"clickhouse": &myconfig.CkConfig,
	} {
		if !dbconfig.Enable {
			continue
		}
		loader, err := NewDbLoader(name, dbconfig)
		if err != nil {
			return nil, err
		}
		loaders[name] = loader
	}
	if myconfig.RedisConfig.Enable {
		loaders["redis"] = &RedisLoader{Redisconfig: &myconfig.RedisConfig}
	}
	if myconfig.MinioConfig.Enable {
		loaders["minio"] = &MinioLoader{Minioconfig: &myconfig.MinioConfig}
	}
	return loaders, nil
}

// Init builds the fiber app with all routes, without listening.
func (p *ApiServer) Init(loaders map[string]Loader) *fiber.App {
	p.mycache = cache.New(mustDuration(p.Myconfig.CacheConfig.Expiration),
		mustDuration(p.Myconfig.CacheConfig.Cleanup))

	log.Info("🚀 API server prepare...")
	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		StrictRouting: true,
		Immutable:     true,
		ServerHeader:  "dictsvc",
		AppName:       "gendict service v" + utils.APP_VERSION,
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  30 * time.Second,
		ProxyHeader:   fiber.HeaderXForwardedFor,
		ErrorHandler:  errorHandler,
	})

	p.initRoute(app)

	dictHdl := DictHandler{
		MaxRecords: p.Myconfig.MaxRecords,
		TmpDir:     p.Myconfig.TmpDir,
		Mycache:    p.mycache,
	}
	dictHdl.AddRouter(app.Group("/dict"))

	loadHdl := LoadHandler{
		MaxRecords: p.Myconfig.MaxRecords,
		Timeout:    p.loadTimeout(),
		Loaders:    loaders,
	}
	loadHdl.AddRouter(app.Group("/load"))

	p.mu.Lock()
	p.app = app
	p.mu.Unlock()
	p.dictHdl = &dictHdl
	p.loadHdl = &loadHdl
	return app
}

// the longest timeout of all sinks
func (p *ApiServer) loadTimeout() time.Duration {
	seconds := max(p.Myconfig.MysqlConfig.Timeout, p.Myconfig.PgConfig.Timeout,
		p.Myconfig.CkConfig.Timeout, p.Myconfig.RedisConfig.Timeout,
		p.Myconfig.MinioConfig.Timeout, DEFAULT_TIMEOUT)
	return time.Duration(seconds) * time.Second
}

// Start builds the app and opens the listener, Serve then blocks on it.
func (p *ApiServer) Start() error {
	loaders, err := NewLoaders(p.Myconfig)
	if err != nil {
		log.Errorf("create loaders failed: %v", err)
		return err
	}

	addr := net.JoinHostPort(p.Myconfig.Host, strconv.Itoa(int(p.Myconfig.Port)))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Errorf("net listen %s error: %s", addr, err.Error())
		return err
	}
	if p.Myconfig.SslEnable {
		tlsConfig, err := utils.TLSConfig(p.Myconfig.CertFile, p.Myconfig.KeyFile)
		if err != nil {
			ln.Close()
			log.Errorf("load tls cert failed: %v", err)
			return err
		}
		ln = tls.NewListener(ln, tlsConfig)
	}

	p.Init(loaders)
	p.mu.Lock()
	p.ln = ln
	p.mu.Unlock()
	return nil
}

// Addr is the listening address after Start.
func (p *ApiServer) Addr() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ln == nil {
		return ""
	}
	return p.ln.Addr().String()
}

// Serve blocks until Stop.
func (p *ApiServer) Serve() error {
	p.mu.Lock()
	app, ln := p.app, p.ln
	p.mu.Unlock()
	if app == nil || ln == nil {
		return errors.New("api server not started")
	}

	err := app.Listener(ln,
		fiber.ListenConfig{
			DisableStartupMessage: true,
			EnablePrintRoutes:     false,
			BeforeServeFunc: func(app *fiber.App) error {
				log.Infof("🚀 API server starting on %s, tls=%v...", ln.Addr(), p.Myconfig.SslEnable)
				return nil
			},
		})
	if err != nil {
		log.Errorf("api server serve error: %s", err.Error())
		return err
	}

	log.Debug("api server stop")
	return nil
}

// Stop must not run concurrently with Start.
func (p *ApiServer) Stop() error {
	p.mu.Lock()
	app, ln := p.app, p.ln
	p.app, p.ln = nil, nil
	p.mu.Unlock()
	if app == nil {
		return nil
	}

	err := app.ShutdownWithTimeout(1 * time.Second)
	if ln != nil {
		// unblocks Serve when it has not accepted yet
		ln.Close()
	}
	if p.loadHdl != nil {
		p.loadHdl.Close()
		p.loadHdl = nil
	}
	p.dictHdl = nil
	return err
}

func (p *ApiServer) initRoute(app *fiber.App) {
	app.Use(func(c fiber.Ctx) error {
		log.Trace("🥇 Any handler: " + c.Path())
		return c.Next()
	})

	app.Get("/status", p.statusHandler)
	app.Get("/version", func(c fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(utils.Version("dictsvc"))
	})
	app.Get("/config", func(c fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(p.Myconfig.Dump())
	})
}

// GET /status
func (p *ApiServer) statusHandler(c fiber.Ctx) error {
	status := fiber.Map{
		"status":     "running",
		"start_time": START_TIME.Format(time.RFC3339),
		"uptime":     time.Since(START_TIME).Round(time.Second).String(),
	}
	if p.mycache != nil {
		status["cache_items"] = p.mycache.ItemCount()
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			status["rss_bytes"] = mem.RSS
		}
		if threads, err := proc.NumThreads(); err == nil {
			status["threads"] = threads
		}
	} else {
		log.Debugf("read process info failed: %v", err)
	}

	return c.JSON(status)
}

// errors are sent as utils.ErrorLog json documents
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := err.Error()
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		msg = e.Message
	}
	if code >= fiber.StatusInternalServerError {
		log.Errorf("%s %s: %s", c.Method(), c.Path(), msg)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(code).Send(utils.MkErrorLog(code, msg))
}

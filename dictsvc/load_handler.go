package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gofiber/fiber/v3"
	log "github.com/sirupsen/logrus"

	"gendict/dict"
)

type LoadHandler struct {
	MaxRecords int
	Timeout    time.Duration
	Loaders    map[string]Loader
}

// r := app.Group("/load")
func (p *LoadHandler) AddRouter(r fiber.Router) error {
	log.Info("LoadHandler AddRouter")

	r.Get("", p.sinksHandler)
	r.Get("/", p.sinksHandler)
	r.Post("/:sink/:n", p.loadHandler)

	return nil
}

// GET /load lists the enabled sinks
func (p *LoadHandler) sinksHandler(c fiber.Ctx) error {
	sinks := make([]string, 0, len(p.Loaders))
	for name := range p.Loaders {
		sinks = append(sinks, name)
	}
	sort.Strings(sinks)
	return c.JSON(fiber.Map{"sinks": sinks})
}

// POST /load/:sink/:n?seed=0
func (p *LoadHandler) loadHandler(c fiber.Ctx) error {
	sink := c.Params("sink")
	loader, ok := p.Loaders[sink]
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("sink '%s' not found or disabled", sink))
	}

	n, seed, err := parseRequest(c, p.MaxRecords)
	if err != nil {
		return err
	}

	start := time.Now()
	records := dict.NewGenerator(seed).Collect(n)

	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	defer cancel()
	rows, err := loader.Load(ctx, records)
	if err != nil {
		log.Errorf("load %d records into %s failed: %v", n, sink, err)
		return fiber.NewError(fiber.StatusBadGateway, fmt.Sprintf("load into %s failed: %s", sink, err))
	}

	return c.JSON(fiber.Map{
		"sink":    loader.Name(),
		"rows":    rows,
		"seed":    seed,
		"elapsed": time.Since(start).String(),
	})
}

func (p *LoadHandler) Close() {
	for name, loader := range p.Loaders {
		if err := loader.Close(); err != nil {
			log.Warnf("close %s loader failed: %v", name, err)
		}
	}
}

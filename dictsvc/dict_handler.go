package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"

	"gendict/dict"
	"gendict/utils"
)

type DictHandler struct {
	MaxRecords int
	TmpDir     string
	Mycache    *cache.Cache
}

// r := app.Group("/dict")
func (p *DictHandler) AddRouter(r fiber.Router) error {
	log.Info("DictHandler AddRouter")

	r.Get("/:n", p.dictHandler)

	return nil
}

// parseRequest reads n from the path and seed from the query.
func parseRequest(c fiber.Ctx, maxRecords int) (int, uint64, error) {
	n, err := dict.ParseCount([]string{c.Params("n")})
	if err != nil {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if n > maxRecords {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("N %d is bigger than max_records %d", n, maxRecords))
	}

	seed, err := strconv.ParseUint(c.Query("seed", "0"), 10, 64)
	if err != nil {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("seed '%s' is not an unsigned integer", c.Query("seed")))
	}
	return n, seed, nil
}

// records with a fixed seed are reproducible, so they are cached.
func (p *DictHandler) records(n int, seed uint64) []dict.Record {
	if seed == 0 || p.Mycache == nil {
		return dict.NewGenerator(seed).Collect(n)
	}

	key := fmt.Sprintf("dict:%d:%d", n, seed)
	if v, found := p.Mycache.Get(key); found {
		log.Tracef("cache hit %s", key)
		return v.([]dict.Record)
	}
	records := dict.NewGenerator(seed).Collect(n)
	p.Mycache.Set(key, records, cache.DefaultExpiration)
	return records
}

// GET /dict/:n?seed=0&mime=text|json|excel|docx
func (p *DictHandler) dictHandler(c fiber.Ctx) error {
	n, seed, err := parseRequest(c, p.MaxRecords)
	if err != nil {
		return err
	}
	records := p.records(n, seed)

	mime := c.Query("mime", "text") // if Queries params mime is not set, default to text
	switch mime {
	case "text":
		c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
		_, err = dict.WriteAll(c, slices.Values(records))
		return err

	case "json":
		return c.JSON(records)

	case "excel":
		return p.sendExport(c, records, ".xlsx", utils.Rows2excel)

	case "docx":
		return p.sendExport(c, records, ".docx", utils.Rows2docx)

	default:
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("mime '%s' not supported", mime))
	}
}

type exportFunc func(ch <-chan []any, columns []string, title, filename string) (int, error)

// write records to a temp file with export, then send it as attachment
func (p *DictHandler) sendExport(c fiber.Ctx, records []dict.Record, suffix string, export exportFunc) error {
	filename, err := utils.TempFilename(p.TmpDir, suffix)
	if err != nil {
		return err
	}
	defer os.Remove(filename)

	ch := make(chan []any, 100)
	go func() {
		defer close(ch)
		for _, r := range records {
			ch <- r.Row()
		}
	}()

	_, err = export(ch, dict.Columns(), "dictionary", filename)
	for range ch {
		// drain, export may stop early on error
	}
	if err != nil {
		return err
	}

	c.Attachment(fmt.Sprintf("dict-%d%s", len(records), suffix))
	fp, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	_, err = io.Copy(c, fp)
	return err
}

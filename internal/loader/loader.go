// Package loader reads the map and card data files into engine types.
// Malformed records are logged and skipped; only unreadable input is an error.
package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"tickettoride/internal/engine"
)

type Loader struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger.Named("loader")}
}

// Column layouts, by position.
var (
	routeColumns       = []string{"source", "destination", "cost", "tunnel", "ferries", "color"}
	trainCardColumns   = []string{"id", "color"}
	destinationColumns = []string{"id", "city1", "city2", "points"}
)

type routeRecord struct {
	Source      string `csv:"source"`
	Destination string `csv:"destination"`
	Cost        int    `csv:"cost"`
	Tunnel      bool   `csv:"tunnel"`
	Ferries     int    `csv:"ferries"`
	Color       string `csv:"color"`
}

type trainCardRecord struct {
	ID    string `csv:"id"`
	Color string `csv:"color"`
}

type destinationRecord struct {
	ID     string `csv:"id"`
	City1  string `csv:"city1"`
	City2  string `csv:"city2"`
	Points int    `csv:"points"`
}

// LoadCities adds one city per line of r to m. Blank lines are skipped.
// It returns the number of cities added.
func (l *Loader) LoadCities(m *engine.RouteMap, r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	added, line := 0, 0
	for sc.Scan() {
		line++
		name := strings.TrimSpace(sc.Text())
		if name == "" {
			continue
		}
		if err := m.AddCity(name); err != nil {
			l.skip("cities", line, err)
			continue
		}
		added++
	}
	if err := sc.Err(); err != nil {
		return added, fmt.Errorf("read cities: %w", err)
	}
	return added, nil
}

// LoadRoutes adds the routes in a CSV file to m. The first record is a
// header and is always skipped.
func (l *Loader) LoadRoutes(m *engine.RouteMap, r io.Reader) (int, error) {
	added := 0
	err := l.eachRecord("routes", r, routeColumns, true, func(row map[string]any) error {
		var rec routeRecord
		if err := decode(row, &rec); err != nil {
			return err
		}
		color, err := engine.ParseRouteColor(rec.Color)
		if err != nil {
			return err
		}
		if _, err := m.AddRoute(rec.Source, rec.Destination, rec.Cost, rec.Tunnel, rec.Ferries, color); err != nil {
			return err
		}
		added++
		return nil
	})
	return added, err
}

// LoadTrainCards reads `id,color` records.
func (l *Loader) LoadTrainCards(r io.Reader) ([]*engine.TrainCard, error) {
	var cards []*engine.TrainCard
	seen := make(map[string]bool)
	err := l.eachRecord("train_cards", r, trainCardColumns, false, func(row map[string]any) error {
		var rec trainCardRecord
		if err := decode(row, &rec); err != nil {
			return err
		}
		if seen[rec.ID] {
			return fmt.Errorf("duplicate card id %q", rec.ID)
		}
		color, err := engine.ParseColor(rec.Color)
		if err != nil {
			return err
		}
		card, err := engine.NewTrainCard(rec.ID, color)
		if err != nil {
			return err
		}
		seen[rec.ID] = true
		cards = append(cards, card)
		return nil
	})
	return cards, err
}

// LoadDestinations reads `id,city1,city2,points` records. When m is not nil
// destinations naming unknown cities are skipped.
func (l *Loader) LoadDestinations(m *engine.RouteMap, r io.Reader) ([]*engine.DestinationCard, error) {
	var cards []*engine.DestinationCard
	seen := make(map[string]bool)
	err := l.eachRecord("destinations", r, destinationColumns, false, func(row map[string]any) error {
		var rec destinationRecord
		if err := decode(row, &rec); err != nil {
			return err
		}
		if seen[rec.ID] {
			return fmt.Errorf("duplicate card id %q", rec.ID)
		}
		if m != nil {
			for _, c := range []string{rec.City1, rec.City2} {
				if !m.HasCity(c) {
					return fmt.Errorf("unknown city %q", c)
				}
			}
		}
		card, err := engine.NewDestinationCard(rec.ID, rec.City1, rec.City2, rec.Points)
		if err != nil {
			return err
		}
		seen[rec.ID] = true
		cards = append(cards, card)
		return nil
	})
	return cards, err
}

// eachRecord walks a CSV stream, maps each row's columns to names and hands
// it to fn. Row errors are logged and skipped. Card files may carry an
// optional header whose first column is "id".
func (l *Loader) eachRecord(kind string, r io.Reader, columns []string, header bool, fn func(row map[string]any) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				l.skip(kind, perr.Line, err)
				continue
			}
			return fmt.Errorf("read %s: %w", kind, err)
		}
		line, _ := cr.FieldPos(0)
		if first {
			first = false
			if header || strings.EqualFold(strings.TrimSpace(rec[0]), columns[0]) {
				continue
			}
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) != len(columns) {
			l.skip(kind, line, fmt.Errorf("expected %d columns, found %d", len(columns), len(rec)))
			continue
		}
		row := make(map[string]any, len(columns))
		for i, name := range columns {
			row[name] = strings.TrimSpace(rec[i])
		}
		if err := fn(row); err != nil {
			l.skip(kind, line, err)
		}
	}
}

func (l *Loader) skip(kind string, line int, err error) {
	l.logger.Warn("skipping malformed record",
		zap.String("file", kind),
		zap.Int("line", line),
		zap.Error(err),
	)
}

func decode(row map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(stringToIntHookFunc(), stringToBoolHookFunc()),
		Result:     out,
		TagName:    "csv",
		ErrorUnset: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(row)
}

func stringToIntHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
		if from == reflect.String && to == reflect.Int {
			n, err := strconv.Atoi(data.(string))
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", data)
			}
			return n, nil
		}
		return data, nil
	}
}

// Anything other than a true value reads as false.
func stringToBoolHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
		if from == reflect.String && to == reflect.Bool {
			b, err := strconv.ParseBool(data.(string))
			return err == nil && b, nil
		}
		return data, nil
	}
}

// Files names the data files for LoadAll.
type Files struct {
	Cities       string
	Routes       string
	TrainCards   string
	Destinations string
}

// Data is everything a game needs from disk.
type Data struct {
	Map          *engine.RouteMap
	TrainCards   []*engine.TrainCard
	Destinations []*engine.DestinationCard
}

// LoadAll reads the four data files.
func (l *Loader) LoadAll(f Files) (*Data, error) {
	d := &Data{Map: engine.NewRouteMap()}

	if err := withFile(f.Cities, func(r io.Reader) error {
		n, err := l.LoadCities(d.Map, r)
		l.logger.Info("loaded cities", zap.Int("count", n))
		return err
	}); err != nil {
		return nil, err
	}
	if err := withFile(f.Routes, func(r io.Reader) error {
		n, err := l.LoadRoutes(d.Map, r)
		l.logger.Info("loaded routes", zap.Int("count", n))
		return err
	}); err != nil {
		return nil, err
	}
	if err := withFile(f.TrainCards, func(r io.Reader) (err error) {
		d.TrainCards, err = l.LoadTrainCards(r)
		l.logger.Info("loaded train cards", zap.Int("count", len(d.TrainCards)))
		return err
	}); err != nil {
		return nil, err
	}
	if err := withFile(f.Destinations, func(r io.Reader) (err error) {
		d.Destinations, err = l.LoadDestinations(d.Map, r)
		l.logger.Info("loaded destinations", zap.Int("count", len(d.Destinations)))
		return err
	}); err != nil {
		return nil, err
	}

	if d.Map.CityCount() == 0 || len(d.Map.Routes()) == 0 {
		return nil, errors.New("loader: map has no cities or routes")
	}
	if len(d.TrainCards) == 0 {
		return nil, errors.New("loader: no train cards")
	}
	return d, nil
}

func withFile(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("loader: %w", err)
	}
	defer f.Close()
	return fn(f)
}

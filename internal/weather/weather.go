// Package weather reduces a BOM district forecast XML product to a short
// text summary for the digest's overview block. Today's missing min/max
// temperatures are filled from a key-value store holding the values the
// previous run saw for "tomorrow".
package weather

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dailydigest/internal/logger"
	"dailydigest/internal/storage"
)

const unavailable = "Weather data unavailable"

const (
	keyMin = "min"
	keyMax = "max"
)

type Client struct {
	url    string
	area   string
	store  *storage.Store
	client *http.Client
}

func New(url, area string, store *storage.Store, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		area:   area,
		store:  store,
		client: &http.Client{Timeout: timeout},
	}
}

// Summary fetches the forecast and renders today and tomorrow as one line.
// Failures never propagate; the caller gets a placeholder string instead.
func (c *Client) Summary(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		logger.Warn("weather request failed", "error", err)
		return unavailable
	}

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("weather fetch failed", "error", err)
		return unavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("weather fetch failed", "status", resp.StatusCode)
		return unavailable
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("weather read failed", "error", err)
		return unavailable
	}

	summary, err := c.summarize(data)
	if err != nil {
		logger.Warn("weather parse failed", "error", err)
		return unavailable
	}
	return summary
}

// XML layout of a BOM precis forecast product, reduced to the parts used.
type product struct {
	Areas []area `xml:"forecast>area"`
}

type area struct {
	Description string   `xml:"description,attr"`
	Type        string   `xml:"type,attr"`
	Periods     []period `xml:"forecast-period"`
}

type period struct {
	Index    string       `xml:"index,attr"`
	Elements []typedValue `xml:"element"`
	Texts    []typedValue `xml:"text"`
}

type typedValue struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

func (p period) element(typ string) string {
	for _, e := range p.Elements {
		if e.Type == typ {
			return strings.TrimSpace(e.Value)
		}
	}
	return "N/A"
}

func (p period) text(typ string) string {
	for _, t := range p.Texts {
		if t.Type == typ {
			return strings.TrimSpace(t.Value)
		}
	}
	return "N/A"
}

// summarize renders forecast periods 0 and 1 of the configured area. The
// fallback store covers today's min/max, which BOM omits later in the day,
// and is refreshed with tomorrow's values after a successful parse.
func (c *Client) summarize(data []byte) (string, error) {
	var prod product
	if err := xml.Unmarshal(data, &prod); err != nil {
		return "", fmt.Errorf("parse forecast xml: %w", err)
	}

	for _, a := range prod.Areas {
		if a.Description != c.area || a.Type != "location" {
			continue
		}

		var lines []string
		for _, idx := range []string{"0", "1"} {
			p, ok := findPeriod(a.Periods, idx)
			if !ok {
				continue
			}

			minTemp := p.element("air_temperature_minimum")
			maxTemp := p.element("air_temperature_maximum")
			precip := p.element("precipitation_range")
			probPrecip := p.text("probability_of_precipitation")
			conditions := p.text("precis")

			switch idx {
			case "0":
				if c.store != nil {
					if minTemp == "N/A" {
						if v, ok := c.store.Get(keyMin); ok {
							minTemp = v
						}
					}
					if maxTemp == "N/A" {
						if v, ok := c.store.Get(keyMax); ok {
							maxTemp = v
						}
					}
				}
			case "1":
				if c.store != nil {
					if minTemp != "N/A" {
						c.store.Set(keyMin, minTemp)
					}
					if maxTemp != "N/A" {
						c.store.Set(keyMax, maxTemp)
					}
				}
			}

			day := "Today"
			if idx == "1" {
				day = "Tomorrow"
			}
			lines = append(lines, fmt.Sprintf("%s: Min %s°C, Max %s°C, Precipitation %s, Chance of Rain %s, %s",
				day, minTemp, maxTemp, precip, probPrecip, conditions))
		}

		if len(lines) == 0 {
			break
		}

		if c.store != nil {
			if err := c.store.Save(); err != nil {
				logger.Warn("weather fallback store save failed", "error", err)
			}
		}
		return strings.Join(lines, "; "), nil
	}

	return "", fmt.Errorf("forecast area %q not found", c.area)
}

func findPeriod(periods []period, index string) (period, bool) {
	for _, p := range periods {
		if p.Index == index {
			return p, true
		}
	}
	return period{}, false
}

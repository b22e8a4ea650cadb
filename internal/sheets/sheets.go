// Package sheets mirrors RSVP rows to a per-event Google spreadsheet through
// the Sheets v4 REST API, authenticated as a service account.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"

	"github.com/eyalfuks51/wedding-Eyal/internal/domain"
)

const sheetsBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

type Mirror interface {
	// MirrorRSVP writes one row for the submission: the row keyed by the
	// guest's phone (column B) is updated in place, or appended when absent.
	MirrorRSVP(ctx context.Context, spreadsheetID string, sub domain.RSVPSubmission) error
}

type Config struct {
	ServiceAccountEmail string
	PrivateKey          string
	// BaseURL overrides the Sheets endpoint, used by tests.
	BaseURL string
}

type client struct {
	jwt     *jwt.Config
	baseURL string
	log     zerolog.Logger
}

// NewClient builds the mirror. With empty credentials it degrades to a no-op
// that logs each skipped write, so environments without a sheet stay usable.
func NewClient(cfg Config) Mirror {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "sheets").Logger()

	if cfg.BaseURL == "" {
		cfg.BaseURL = sheetsBaseURL
	}
	if cfg.ServiceAccountEmail == "" || cfg.PrivateKey == "" {
		logger.Warn().Msg("google credentials missing, sheet mirroring disabled")
		return &client{baseURL: cfg.BaseURL, log: logger}
	}

	return &client{
		jwt: &jwt.Config{
			Email: cfg.ServiceAccountEmail,
			// Keys injected through env have their newlines escaped.
			PrivateKey: []byte(strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n")),
			Scopes:     []string{"https://www.googleapis.com/auth/spreadsheets"},
			TokenURL:   google.JWTTokenURL,
		},
		baseURL: cfg.BaseURL,
		log:     logger,
	}
}

func (c *client) MirrorRSVP(ctx context.Context, spreadsheetID string, sub domain.RSVPSubmission) error {
	if c.jwt == nil {
		c.log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("mirror disabled, skipping write")
		return nil
	}

	httpClient := c.jwt.Client(ctx)

	sheetName, err := c.firstSheetTitle(ctx, httpClient, spreadsheetID)
	if err != nil {
		return err
	}

	rowNumber, err := c.findRowByPhone(ctx, httpClient, spreadsheetID, sheetName, sub.Phone)
	if err != nil {
		return err
	}

	values := [][]any{{
		sub.FullName,
		sub.Phone,
		sub.Attending,
		sub.GuestsCount,
		sub.NeedsParking,
	}}

	encoded := url.PathEscape(sheetName)
	if rowNumber > 0 {
		target := fmt.Sprintf("%s/%s/values/%s!A%d:E%d?valueInputOption=RAW",
			c.baseURL, spreadsheetID, encoded, rowNumber, rowNumber)
		return c.writeValues(ctx, httpClient, http.MethodPut, target, values)
	}

	target := fmt.Sprintf("%s/%s/values/%s!A:E:append?valueInputOption=RAW",
		c.baseURL, spreadsheetID, encoded)
	return c.writeValues(ctx, httpClient, http.MethodPost, target, values)
}

func (c *client) firstSheetTitle(ctx context.Context, httpClient *http.Client, spreadsheetID string) (string, error) {
	target := fmt.Sprintf("%s/%s?fields=sheets.properties.title", c.baseURL, spreadsheetID)

	var meta struct {
		Sheets []struct {
			Properties struct {
				Title string `json:"title"`
			} `json:"properties"`
		} `json:"sheets"`
	}
	if err := c.getJSON(ctx, httpClient, target, &meta); err != nil {
		return "", fmt.Errorf("fetch spreadsheet metadata: %w", err)
	}
	if len(meta.Sheets) == 0 {
		return "", fmt.Errorf("spreadsheet %s has no sheets", spreadsheetID)
	}
	return meta.Sheets[0].Properties.Title, nil
}

// findRowByPhone scans column B and returns the 1-based row number of the
// phone, or 0 when not present.
func (c *client) findRowByPhone(ctx context.Context, httpClient *http.Client, spreadsheetID, sheetName, phone string) (int, error) {
	target := fmt.Sprintf("%s/%s/values/%s!B:B", c.baseURL, spreadsheetID, url.PathEscape(sheetName))

	var data struct {
		Values [][]string `json:"values"`
	}
	if err := c.getJSON(ctx, httpClient, target, &data); err != nil {
		return 0, fmt.Errorf("read phone column: %w", err)
	}

	for i, row := range data.Values {
		if len(row) > 0 && row[0] == phone {
			return i + 1, nil
		}
	}
	return 0, nil
}

func (c *client) getJSON(ctx context.Context, httpClient *http.Client, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("sheets api HTTP %d: %s", res.StatusCode, string(body))
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *client) writeValues(ctx context.Context, httpClient *http.Client, method, target string, values [][]any) error {
	payload, err := json.Marshal(map[string]any{"values": values})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("sheets write HTTP %d: %s", res.StatusCode, string(body))
	}
	return nil
}

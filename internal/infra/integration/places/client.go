package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/siteseeker/backend/internal/entity"
)

// ErrProxyBlocked: o relay de CORS respondeu a página de bloqueio em vez
// do JSON da API. Tem remediação própria, não é um erro genérico de rede.
var ErrProxyBlocked = errors.New("relay de CORS bloqueado: libere o acesso no painel do relay ou configure a chamada direta")

// Página de bloqueio do cors-anywhere.
const proxyBlockedMarker = "/corsdemo"

type Client struct {
	baseURL  string
	apiKey   string
	proxyURL string
	http     *http.Client
}

// NewClient cria o cliente da Places API. proxyURL é o prefixo de um
// relay de CORS (legado); vazio = chamada direta, que é o recomendado já
// que a chave mora neste servidor.
func NewClient(apiKey, baseURL, proxyURL string) *Client {
	if baseURL == "" {
		baseURL = "https://maps.googleapis.com/maps/api/place"
	}
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		proxyURL: proxyURL,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// TextSearch faz a busca textual e devolve os resumos na ordem da API,
// sem re-rankear.
func (c *Client) TextSearch(ctx context.Context, query string) ([]entity.PlaceSummary, error) {
	endpoint := fmt.Sprintf("%s/textsearch/json?query=%s&key=%s",
		c.baseURL, url.QueryEscape(query), c.apiKey)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response textSearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("erro decode places: %w", err)
	}

	if response.Status != "OK" && response.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places textsearch status %s: %s", response.Status, response.ErrorMessage)
	}

	summaries := make([]entity.PlaceSummary, 0, len(response.Results))
	for _, r := range response.Results {
		summaries = append(summaries, entity.PlaceSummary{
			ID:               r.PlaceID,
			Name:             r.Name,
			FormattedAddress: r.FormattedAddress,
			Types:            r.Types,
		})
	}
	return summaries, nil
}

func (c *Client) PlaceDetails(ctx context.Context, placeID string) (*entity.PlaceDetail, error) {
	endpoint := fmt.Sprintf("%s/details/json?place_id=%s&fields=%s&key=%s",
		c.baseURL,
		url.QueryEscape(placeID),
		url.QueryEscape("place_id,name,formatted_address,formatted_phone_number,website,types,geometry"),
		c.apiKey)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response detailsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("erro decode places: %w", err)
	}

	if response.Status != "OK" {
		return nil, fmt.Errorf("places details status %s: %s", response.Status, response.ErrorMessage)
	}

	r := response.Result
	detail := &entity.PlaceDetail{
		ID:               r.PlaceID,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Phone:            r.Phone,
		Website:          r.Website,
		Types:            r.Types,
	}
	if r.PlaceID == "" {
		detail.ID = placeID
	}
	if r.Geometry != nil {
		detail.Location = &entity.GeoPoint{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng}
	}
	return detail, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if c.proxyURL != "" {
		endpoint = c.proxyURL + endpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro request places: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if c.proxyURL != "" && strings.Contains(string(body), proxyBlockedMarker) {
		return nil, ErrProxyBlocked
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("places respondeu status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	return body, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

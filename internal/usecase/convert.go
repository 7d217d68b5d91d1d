package usecase

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/siteseeker/backend/internal/entity"
)

// Placeholders dos campos que a API de lugares não fornece.
const (
	PlaceholderContact = "Contato não disponível"
	PlaceholderPhone   = "Telefone não disponível"
	placeholderWebsite = "não disponível"
)

// NewLeadFromPlace converte um resultado da busca em um Lead. Função pura
// fora o id/timestamps: o mesmo lugar sempre produz os mesmos campos.
func NewLeadFromPlace(place entity.PlaceDetail, keyword string) (*entity.Lead, error) {
	phone := place.Phone
	if phone == "" {
		phone = PlaceholderPhone
	}

	industry := keyword
	if len(place.Types) > 0 && place.Types[0] != "" {
		industry = place.Types[0]
	}

	website := place.Website
	notesSite := website
	if notesSite == "" {
		notesSite = placeholderWebsite
	}
	// O par "Website: ... | place_id: ..." é recuperável por regex
	// (entity.ExtractPlaceID); leads antigos dependem desse formato.
	notes := fmt.Sprintf("Lead encontrado via Google Maps. Website: %s | place_id: %s", notesSite, place.ID)

	status := entity.StatusNew
	if website != "" {
		status = entity.StatusHasWebsite
	}

	lead, err := entity.NewLead(
		place.Name,
		PlaceholderContact,
		phone,
		DeriveEmail(place.Name, place.FormattedAddress, website),
		place.FormattedAddress,
		industry,
		notes,
		status,
	)
	if err != nil {
		return nil, err
	}

	lead.Website = website
	lead.PlaceID = place.ID
	return lead, nil
}

// DeriveEmail monta um email de contato provável, sem rede:
//  1. com site, usa o host sem "www.": contato@acme.com.br
//  2. sem site, usa o slug do nome + bairro do endereço:
//     contato@padariasaojose.centro.com.br
func DeriveEmail(businessName, address, website string) string {
	if website != "" {
		if host := hostFromURL(website); host != "" {
			return "contato@" + strings.TrimPrefix(strings.ToLower(host), "www.")
		}
	}

	slug := slugify(businessName)
	if locality := localityFromAddress(address); locality != "" {
		return "contato@" + slug + "." + locality + ".com.br"
	}
	return "contato@" + slug + ".com.br"
}

func hostFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err == nil && u.Host != "" {
		return u.Host
	}
	// sem esquema ("acme.com.br/contato")
	u, err = url.Parse("https://" + raw)
	if err != nil {
		return ""
	}
	return u.Host
}

// slugify: minúsculas, sem acentos, sem pontuação, sem espaços.
// "Padaria São José" -> "padariasaojose"
func slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	for _, r := range strings.ToLower(plain) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// localityFromAddress pega o bairro de um endereço brasileiro, que vem
// depois da primeira vírgula ("Rua A, Centro, São Paulo" -> "centro").
func localityFromAddress(address string) string {
	parts := strings.Split(address, ",")
	if len(parts) < 2 {
		return ""
	}
	return slugify(parts[1])
}

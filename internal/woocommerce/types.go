package woocommerce

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rarebeats/api/internal/domain"
)

// metaValue tolerates the loose typing of WooCommerce meta_data values:
// strings stay as-is, numbers and booleans are coerced to their string form,
// anything structured (arrays, objects) collapses to its raw JSON. The
// normalizer downstream treats unusable values as absent, so coercion here
// never needs to fail.
type metaValue string

func (v *metaValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = metaValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*v = metaValue(n.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = metaValue(strconv.FormatBool(b))
		return nil
	}
	*v = metaValue(trimmed)
	return nil
}

type metaPayload struct {
	Key   string    `json:"key"`
	Value metaValue `json:"value"`
}

type imagePayload struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

type productPayload struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Status     string         `json:"status"`
	Permalink  string         `json:"permalink"`
	Price      string         `json:"price"`
	Images     []imagePayload `json:"images"`
	MetaData   []metaPayload  `json:"meta_data"`
	Variations []int64        `json:"variations"`
}

type variationAttributePayload struct {
	Name   string `json:"name"`
	Option string `json:"option"`
}

type variationPayload struct {
	ID         int64                       `json:"id"`
	Price      string                      `json:"price"`
	Attributes []variationAttributePayload `json:"attributes"`
}

func (p productPayload) toDomain() domain.Product {
	product := domain.Product{
		ID:         p.ID,
		Name:       p.Name,
		Status:     p.Status,
		Permalink:  p.Permalink,
		Price:      p.Price,
		Variations: p.Variations,
	}
	for _, img := range p.Images {
		product.Images = append(product.Images, domain.ProductImage{ID: img.ID, Src: img.Src, Alt: img.Alt})
	}
	for _, meta := range p.MetaData {
		product.MetaData = append(product.MetaData, domain.MetadataPair{Key: meta.Key, Value: string(meta.Value)})
	}
	return product
}

func (p variationPayload) toDomain() domain.Variation {
	variation := domain.Variation{ID: p.ID, Price: p.Price}
	for _, attr := range p.Attributes {
		variation.Attributes = append(variation.Attributes, domain.VariationAttribute{Name: attr.Name, Option: attr.Option})
	}
	return variation
}

package domain

import (
	"strconv"
	"strings"
)

// Field names of the Colibri product feed. The feed is a flat JSON array of
// objects keyed by these names; values arrive as strings or numbers depending
// on the export that produced them.
const (
	FieldSKU          = "CODIGO_SKU"
	FieldUniqueCode   = "CODIGO_UNICO"
	FieldProductType  = "TIPO_DE_PRODUCTO"
	FieldTitle        = "TITULO"
	FieldDescription  = "DESCRIPCION_CORTA"
	FieldRegularPrice = "PRECIO_NORMAL"
	FieldSalePrice    = "PRECIO_DESCUENTO"
	FieldStock        = "STOCK"
	FieldLowStock     = "STOCK_MINIMO"
	FieldMainImage    = "IMAGEN_PRINCIPAL"
	FieldOtherImages  = "OTRAS_IMAGENES"
	FieldCategories   = "CATEGORIAS_CONCATENADAS"
)

// Dynamically named attribute fields: for a slug X the feed may carry
// NOMBRE_DE_ATRIBUTO_X, VALOR_DE_ATRIBUTO_X, ATRIBUTO_VISIBLE_X and either
// ATRIBUTO_X_ES_VARIABLE or ATRIBUTO_X_VARIABLE.
const (
	AttrNamePrefix    = "NOMBRE_DE_ATRIBUTO_"
	AttrValuePrefix   = "VALOR_DE_ATRIBUTO_"
	AttrVisiblePrefix = "ATRIBUTO_VISIBLE_"
	AttrPrefix        = "ATRIBUTO_"
	AttrVariableEsSuf = "_ES_VARIABLE"
	AttrVariableSuf   = "_VARIABLE"
)

// RawRecord is one row of the upstream feed.
type RawRecord map[string]any

func (r RawRecord) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Str returns the value under key coerced to a trimmed string.
func (r RawRecord) Str(key string) string {
	switch v := r[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// Float returns the value under key coerced to float64, 0 when absent or
// unparseable.
func (r RawRecord) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func (r RawRecord) Int(key string) int {
	return int(r.Float(key))
}

// SKU returns the group key of the record.
func (r RawRecord) SKU() string { return r.Str(FieldSKU) }

// UniqueCode returns the variation-level identifier.
func (r RawRecord) UniqueCode() string { return r.Str(FieldUniqueCode) }

// SkuGroup is an ordered run of records sharing one group SKU. The first
// record is authoritative for shared fields (title, description, categories,
// images).
type SkuGroup struct {
	SKU     string
	Records []RawRecord
}

func (g SkuGroup) First() RawRecord { return g.Records[0] }

// Kind derives the product kind from the first record's type tag. Anything
// other than "variable" maps to a simple product, regardless of group size.
func (g SkuGroup) Kind() ProductKind {
	if strings.ToLower(g.First().Str(FieldProductType)) == string(KindVariable) {
		return KindVariable
	}
	return KindSimple
}

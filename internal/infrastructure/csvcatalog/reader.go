// Package csvcatalog lee el catálogo de insumos desde CSV exportado de hojas de cálculo,
// en UTF-8 o Latin-1 (ISO-8859-1), separado por ';' o ','.
//
// Cabecera esperada (orden libre, sin distinguir mayúsculas):
//
//	codigo;nombre_generico;presentacion;unidad_medida;aplicaciones_minimas;rendimiento_teorico;costo_unitario
//
// codigo y nombre_generico son obligatorias; el resto es opcional.
package csvcatalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Encoding codificación del archivo.
type Encoding string

// Codificaciones admitidas.
const (
	EncodingAuto   Encoding = "auto"
	EncodingUTF8   Encoding = "utf-8"
	EncodingLatin1 Encoding = "latin1"
)

// ParseEncoding acepta los alias habituales.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return EncodingAuto, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return EncodingLatin1, nil
	}
	return "", fmt.Errorf("codificación desconocida: %q", s)
}

var required = []string{"codigo", "nombre_generico"}

// Read decodifica el CSV y devuelve los insumos en el orden del archivo.
func Read(r io.Reader, enc Encoding) ([]entity.Supply, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer catálogo: %w", err)
	}
	text, err := decode(raw, enc)
	if err != nil {
		return nil, err
	}
	text = bytes.TrimPrefix(text, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(text))
	cr.Comma = detectComma(text)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("catálogo vacío")
		}
		return nil, fmt.Errorf("cabecera: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("falta la columna %q", col)
		}
	}

	var out []entity.Supply
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		field := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if field("codigo") == "" && field("nombre_generico") == "" {
			continue
		}
		s, err := toSupply(field)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func toSupply(field func(string) string) (entity.Supply, error) {
	s := entity.Supply{
		Code:         field("codigo"),
		GenericName:  field("nombre_generico"),
		Presentation: field("presentacion"),
		UnitMeasure:  field("unidad_medida"),
		Yield:        1,
	}
	if s.Code == "" || s.GenericName == "" {
		return s, fmt.Errorf("codigo y nombre_generico son obligatorios")
	}
	var err error
	if v := field("aplicaciones_minimas"); v != "" {
		if s.MinimumApplications, err = strconv.ParseInt(v, 10, 64); err != nil {
			return s, fmt.Errorf("aplicaciones_minimas %q: %w", v, err)
		}
	}
	if v := field("rendimiento_teorico"); v != "" {
		if s.Yield, err = strconv.ParseInt(v, 10, 64); err != nil {
			return s, fmt.Errorf("rendimiento_teorico %q: %w", v, err)
		}
	}
	if v := field("costo_unitario"); v != "" {
		// las hojas en español exportan la coma decimal
		if s.UnitCost, err = decimal.NewFromString(strings.ReplaceAll(v, ",", ".")); err != nil {
			return s, fmt.Errorf("costo_unitario %q: %w", v, err)
		}
	}
	return s, nil
}

// decode lleva el contenido a UTF-8. En modo auto se asume Latin-1 si no es UTF-8 válido.
func decode(raw []byte, enc Encoding) ([]byte, error) {
	if enc == EncodingAuto {
		enc = EncodingUTF8
		if !utf8.Valid(raw) {
			enc = EncodingLatin1
		}
	}
	if enc == EncodingUTF8 {
		return raw, nil
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("decodificar Latin-1: %w", err)
	}
	return out, nil
}

// detectComma usa ';' si aparece en la primera línea (exportación regional de Excel).
func detectComma(text []byte) rune {
	first, _, _ := bytes.Cut(text, []byte("\n"))
	if bytes.ContainsRune(first, ';') {
		return ';'
	}
	return ','
}

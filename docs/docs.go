// Package docs registra la especificación OpenAPI de la API en swag.
// swagger.json se sirve además en /docs mediante gofiber/contrib/swagger.
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var docTemplate string

// SwaggerInfo información de la API expuesta a swag.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Kardex API",
	Description:      "Kardex físico-valorado de insumos odontológicos: lotes, consumo FIFO, ajustes y vencimientos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

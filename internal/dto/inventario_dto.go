package dto

// AgregarKeysRequest holds one licence per line; blank lines are ignored.
type AgregarKeysRequest struct {
	Licencias string `json:"licencias" validate:"required"`
}

type AgregarKeysResponse struct {
	ProductoID      string `json:"producto_id"`
	Agregadas       int    `json:"agregadas"`
	StockDisponible int64  `json:"stock_disponible"`
}

type KeyResponse struct {
	ID         string  `json:"id"`
	ProductoID string  `json:"producto_id"`
	Licencia   string  `json:"licencia"`
	Estado     string  `json:"estado"`
	FechaUso   *string `json:"fecha_uso"`
}

// KeysProductoResponse mirrors the per-product key screen: both pools side by side.
type KeysProductoResponse struct {
	Producto    ProductoResponse `json:"producto"`
	Disponibles []KeyResponse    `json:"disponibles"`
	Usadas      []KeyResponse    `json:"usadas"`
}

type StockResponse struct {
	ProductoID      string `json:"producto_id"`
	StockDisponible int64  `json:"stock_disponible"`
}

type AlertaStockResponse struct {
	ProductoID      string `json:"producto_id"`
	Nombre          string `json:"nombre"`
	Categoria       string `json:"categoria"`
	StockDisponible int64  `json:"stock_disponible"`
	Umbral          int    `json:"umbral"`
}

package queryengine

import "github.com/politiktok/research-engine/internal/dataset"

// Chart is one renderable data series. Rendering itself happens client
// side; the engine only selects and shapes the data.
type Chart struct {
	ID     string    `json:"id"`
	Kind   string    `json:"kind"` // pie, bar, line
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Stat is a named, display-ready statistic. Stats keep slice order so
// payloads render deterministically.
type Stat struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Payload is the structured response produced for a query. Type is always
// set; no_data payloads carry Message and Suggestion instead of charts.
type Payload struct {
	Type       Intent      `json:"type"`
	Title      string      `json:"title"`
	Message    string      `json:"message,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
	Charts     []Chart     `json:"charts,omitempty"`
	Stats      []Stat      `json:"stats,omitempty"`
	FilterInfo *FilterInfo `json:"filter_info,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// DatasetOverview summarizes one dataset for the data-summary endpoint.
type DatasetOverview struct {
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
	Stats   []Stat   `json:"stats,omitempty"`
}

// DataSummary maps dataset names to their overviews.
type DataSummary map[dataset.Name]DatasetOverview

// noTermPayload is the response when no usable filter term could be
// extracted from the question.
func noTermPayload() Payload {
	return Payload{
		Type:       IntentNoData,
		Title:      "Sin Datos Disponibles",
		Message:    "No pude identificar un término de búsqueda en tu pregunta.",
		Suggestion: "Intenta preguntar por una palabra concreta, por ejemplo: 'datos sobre la palabra democracia'.",
	}
}

// noMatchPayload is the response when a specific term filtered out every
// row, which is a different situation from not finding a term at all.
func noMatchPayload(term string) Payload {
	return Payload{
		Type:       IntentNoData,
		Title:      "Sin Datos Disponibles",
		Message:    "No se encontraron datos relevantes para '" + term + "' en los conjuntos de datos.",
		Suggestion: "Intenta con una palabra diferente o consulta el resumen general de los datos.",
	}
}

// internalErrorPayload wraps an unexpected stage failure so the caller
// always receives a renderable response.
func internalErrorPayload(err error) Payload {
	return Payload{
		Type:    IntentSummary,
		Title:   "Error",
		Message: "Ocurrió un error procesando tu consulta. Inténtalo de nuevo.",
		Error:   err.Error(),
	}
}

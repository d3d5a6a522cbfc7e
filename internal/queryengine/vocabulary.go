// Package queryengine implements the query-understanding pipeline: term
// extraction, dataset relevance scoring, cross-dataset filtering,
// visualization intent selection, and summary building.
package queryengine

import (
	"strings"

	"github.com/politiktok/research-engine/internal/dataset"
)

// Vocabulary holds the declarative word tables the pipeline consumes.
// Keeping them as data, separate from the algorithms, lets each list be
// tuned and tested on its own.
type Vocabulary struct {
	Stopwords       map[string]bool
	DomainTerms     map[string]bool
	GenericTerms    map[string]bool
	DatasetKeywords map[dataset.Name][]string
	SearchColumns   map[dataset.Name][]string
	IntentKeywords  map[Intent][]string
}

// DefaultVocabulary builds the standard Spanish vocabulary tables.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Stopwords:       buildStopwords(),
		DomainTerms:     buildDomainTerms(),
		GenericTerms:    buildGenericTerms(),
		DatasetKeywords: buildDatasetKeywords(),
		SearchColumns:   buildSearchColumns(),
		IntentKeywords:  buildIntentKeywords(),
	}
}

// buildStopwords returns the Spanish function-word set plus domain filler
// words that never make useful filter terms.
func buildStopwords() map[string]bool {
	words := []string{
		// Articles and determiners
		"el", "la", "los", "las", "un", "una", "unos", "unas", "lo",
		"este", "esta", "estos", "estas", "ese", "esa", "esos", "esas",
		"aquel", "aquella", "aquellos", "aquellas", "mi", "tu", "su",
		"mis", "tus", "sus", "nuestro", "nuestra", "nuestros", "nuestras",
		// Prepositions and conjunctions
		"de", "del", "a", "al", "en", "con", "por", "para", "sin", "sobre",
		"entre", "hasta", "desde", "durante", "según", "segun", "tras",
		"y", "e", "o", "u", "ni", "pero", "sino", "aunque", "porque",
		"pues", "si", "como", "cuando", "mientras",
		// Pronouns
		"yo", "me", "te", "se", "nos", "os", "le", "les", "que", "quien",
		"quienes", "cual", "cuales", "esto", "eso", "aquello", "algo",
		"alguien", "nada", "nadie", "todo", "toda", "todos", "todas",
		// Question words
		"qué", "que", "cuál", "cuáles", "quién", "quiénes", "cómo", "como",
		"dónde", "donde", "cuándo", "cuando", "cuánto", "cuánta", "cuántos",
		"cuántas", "cuanto", "cuantos",
		// Common verbs
		"es", "son", "está", "están", "esta", "estan", "ser", "estar",
		"hay", "tiene", "tienen", "tener", "hace", "hacen", "hacer",
		"puede", "pueden", "poder", "quiero", "quieres", "quiere",
		"dame", "dime", "muestra", "muéstrame", "muestrame", "ver", "dar",
		"decir", "dice", "dicen", "existe", "existen", "fue", "fueron",
		"era", "eran", "sea", "sean", "compara", "comparar", "analiza",
		"analizar", "busca", "buscar", "encuentra", "encontrar", "saber",
		"háblame", "hablame", "enséñame", "enseñame",
		// Adverbs and fillers
		"no", "sí", "si", "más", "mas", "menos", "muy", "mucho", "mucha",
		"muchos", "muchas", "poco", "poca", "pocos", "pocas", "también",
		"tambien", "tampoco", "ya", "aún", "aun", "solo", "sólo", "bien",
		"mal", "así", "asi", "ahora", "luego", "después", "despues",
		"antes", "siempre", "nunca", "aquí", "aqui", "ahí", "ahi", "allí",
		"alli", "hola", "oye", "tal", "favor", "gracias", "entonces",
		// Time and size words
		"hoy", "ayer", "mañana", "manana", "día", "dia", "días", "dias",
		"mes", "meses", "año", "ano", "años", "anos", "semana", "semanas",
		"tiempo", "grande", "grandes", "pequeño", "pequeña", "pequeños",
		"mayor", "menor", "primero", "primera", "último", "ultima",
		"ultimo", "última",
		// Numerals
		"uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho",
		"nueve", "diez", "cien", "mil",
		// Domain filler words
		"datos", "dato", "data", "gráfico", "grafico", "gráficos",
		"graficos", "gráfica", "grafica", "palabra", "palabras", "tabla",
		"tablas", "lista", "listado", "información", "informacion",
		"resultado", "resultados", "ejemplo", "ejemplos", "cosa", "cosas",
		"tipo", "tipos", "parte", "partes", "forma", "manera", "vez",
		"veces", "caso", "casos",
	}

	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// buildDomainTerms returns the curated political and social vocabulary.
// Accent-folded duplicates are included so either spelling matches.
func buildDomainTerms() map[string]bool {
	terms := []string{
		"revolución", "revolucion",
		"democracia",
		"justicia",
		"libertad",
		"igualdad",
		"dictadura",
		"corrupción", "corrupcion",
		"violencia",
		"protesta", "protestas",
		"marcha", "marchas",
		"huelga",
		"constitución", "constitucion",
		"elecciones", "elección", "eleccion",
		"gobierno",
		"congreso",
		"presidente", "presidenta",
		"izquierda",
		"derecha",
		"socialismo",
		"comunismo",
		"capitalismo",
		"fascismo",
		"feminismo",
		"aborto",
		"migración", "migracion",
		"inmigración", "inmigracion",
		"pobreza",
		"desigualdad",
		"educación", "educacion",
		"salud",
		"pensiones", "pensión", "pension",
		"impuestos", "impuesto",
		"economía", "economia",
		"inflación", "inflacion",
		"crisis",
		"guerra",
		"paz",
		"derechos",
		"censura",
		"represión", "represion",
		"estado",
		"nación", "nacion",
		"patria",
		"pueblo",
	}

	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		set[t] = true
	}
	return set
}

// buildGenericTerms returns query words and phrases too unspecific to
// filter by. A generic term leaves the datasets untouched instead of
// producing an uninformative filter.
func buildGenericTerms() map[string]bool {
	terms := []string{
		"análisis de datos", "analisis de datos", "análisis", "analisis",
		"analysis", "resumen", "summary", "datos", "data", "información",
		"informacion", "general", "todo", "todos", "visualización",
		"visualizacion", "gráfico", "grafico", "estadísticas",
		"estadisticas",
	}

	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		set[t] = true
	}
	return set
}

// buildDatasetKeywords returns the per-dataset relevance dictionaries.
// Declaration order inside each list is irrelevant; dataset ranking ties
// break by dataset.AllNames order.
func buildDatasetKeywords() map[dataset.Name][]string {
	return map[dataset.Name][]string{
		dataset.Accounts: {
			"cuenta", "cuentas", "creador", "creadores", "usuario",
			"usuarios", "perfil", "perfiles", "seguidor", "seguidores",
			"influencer", "influencers", "perspectiva", "ideología",
			"ideologia", "política", "politica", "político", "politico",
			"orientación", "orientacion", "biografía", "biografia",
			"account", "creator", "user", "profile", "follower",
		},
		dataset.Videos: {
			"video", "videos", "contenido", "publicación", "publicacion",
			"publicaciones", "post", "posts", "views", "visualización",
			"visualizacion", "visualizaciones", "vistas", "fecha",
			"tiempo", "temporal", "evolución", "evolucion", "tendencia",
			"tendencias", "viral", "virales", "content", "date", "trend",
		},
		dataset.Subtitles: {
			"subtítulo", "subtitulo", "subtítulos", "subtitulos",
			"transcripción", "transcripcion", "texto", "textos", "habla",
			"hablan", "dice", "dicen", "menciona", "mencionan", "palabra",
			"palabras", "frase", "frases", "discurso", "discursos",
			"conversación", "conversacion", "diálogo", "dialogo",
			"subtitle", "transcript", "speech", "says",
		},
		dataset.Words: {
			"palabra", "palabras", "término", "termino", "términos",
			"terminos", "sentimiento", "sentimientos", "emoción",
			"emocion", "emociones", "análisis", "analisis", "semántico",
			"semantico", "significado", "connotación", "connotacion",
			"polaridad", "positivo", "positiva", "negativo", "negativa",
			"word", "term", "sentiment", "emotion", "meaning",
		},
	}
}

// buildSearchColumns returns the designated searchable text columns per
// dataset for term filtering.
func buildSearchColumns() map[dataset.Name][]string {
	return map[dataset.Name][]string{
		dataset.Accounts:  {dataset.ColUsername, dataset.ColPerspective, dataset.ColThemes},
		dataset.Videos:    {dataset.ColUsername, dataset.ColTitle, dataset.ColURL},
		dataset.Words:     {dataset.ColWord, dataset.ColType1},
		dataset.Subtitles: {dataset.ColText, dataset.ColUsername},
	}
}

// buildIntentKeywords returns the weighted keyword groups for
// visualization intent scoring.
func buildIntentKeywords() map[Intent][]string {
	return map[Intent][]string{
		IntentTimeSeries: {
			"evolución", "evolucion", "tiempo", "temporal", "tendencia",
			"tendencias", "histórico", "historico", "historia", "cronología",
			"cronologia", "mensual", "anual", "fecha", "fechas", "periodo",
			"período",
		},
		IntentComparison: {
			"comparar", "compara", "comparación", "comparacion", "versus",
			"vs", "diferencia", "diferencias", "contra", "frente", "mejor",
			"peor", "top", "ranking", "mayores", "menores",
		},
		IntentDistribution: {
			"distribución", "distribucion", "proporción", "proporcion",
			"porcentaje", "porcentajes", "histograma", "frecuencia",
			"frecuencias", "reparto", "composición", "composicion",
		},
		IntentSentiment: {
			"sentimiento", "sentimientos", "emoción", "emocion",
			"emociones", "opinión", "opinion", "opiniones", "positivo",
			"negativo", "emocional", "tono", "polaridad",
		},
		IntentSummary: {
			"resumen", "general", "panorama", "visión", "vision",
			"overview", "global", "completo", "total", "estadísticas",
			"estadisticas",
		},
		IntentFocusedChart: {
			"específico", "especifico", "concreto", "individual",
			"particular", "detalle", "detalles", "enfocado", "solo",
		},
	}
}

// accentFolder maps accented vowels to their plain forms for matching.
// The eñe is left alone so distinct words stay distinct.
var accentFolder = map[rune]rune{
	'á': 'a', 'é': 'e', 'í': 'i', 'ó': 'o', 'ú': 'u', 'ü': 'u',
}

// foldAccents lowercases and strips accents from vowels.
func foldAccents(s string) string {
	s = strings.ToLower(s)
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if folded, ok := accentFolder[r]; ok {
			r = folded
		}
		out = append(out, r)
	}
	return string(out)
}

package parser

import (
	"golang.org/x/text/language"

	"babinium/internal/domain"
)

const instructionEN = `Analyze the provided image, which contains a table of data.
Your task is to meticulously extract all of the information in this table and structure it as valid JSON.
The result must be a JSON array where each element of the array is an object representing a single row of the table.
Use the table's column headers as the keys for the properties of each row object.
Make sure data types are inferred correctly (for example, numbers must be numbers, not text strings). If a cell is empty, represent it as null or an empty string.
Do not include any explanatory text, comments or markdown formatting in your response. The output must be only the raw JSON data.`

const instructionES = `Analiza la imagen proporcionada, que contiene una tabla de datos.
Tu tarea es extraer meticulosamente toda la información de esta tabla y estructurarla como un JSON válido.
El resultado debe ser un array JSON donde cada elemento del array es un objeto que representa una sola fila de la tabla.
Utiliza las cabeceras de las columnas de la tabla como las claves para las propiedades en cada objeto de fila.
Asegúrate de que los tipos de datos se infieran correctamente (por ejemplo, los números deben ser números, no cadenas de texto). Si una celda está vacía, represéntala como null o una cadena vacía.
No incluyas ningún texto explicativo, comentarios o formato markdown en tu respuesta. La salida debe ser únicamente los datos JSON sin procesar.`

// supportedLocales is ordered by preference; the first entry is the fallback.
var supportedLocales = []language.Tag{language.English, language.Spanish}

var instructions = map[language.Tag]string{
	language.English: instructionEN,
	language.Spanish: instructionES,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// MatchLocale resolves a BCP 47 locale string to the closest supported locale.
func MatchLocale(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return supportedLocales[0]
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return supportedLocales[0]
	}
	return supportedLocales[idx]
}

// BuildTableExtractionPrompt returns the fixed table extraction instruction
// for the given locale.
func BuildTableExtractionPrompt(locale string) string {
	return instructions[MatchLocale(locale)]
}

// RequestBuilder composes extraction requests. The instruction text is fixed
// at construction; only the attached image varies per request.
type RequestBuilder struct {
	instruction string
}

// NewRequestBuilder creates a RequestBuilder for the given locale.
func NewRequestBuilder(locale string) *RequestBuilder {
	return &RequestBuilder{instruction: BuildTableExtractionPrompt(locale)}
}

// Build attaches img to the instruction text.
func (b *RequestBuilder) Build(img domain.EncodedImage) domain.ExtractionRequest {
	return domain.ExtractionRequest{
		Instruction: b.instruction,
		Image:       img,
	}
}

// Instruction returns the instruction text used for every request.
func (b *RequestBuilder) Instruction() string {
	return b.instruction
}

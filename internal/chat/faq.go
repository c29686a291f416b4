package chat

import "strings"

// FAQ is a curated customer-service question used both as LLM context and
// as the fallback answer source when the upstream is unavailable.
type FAQ struct {
	ID       string
	Question string
	Answer   string
	Category string
	Keywords []string
}

var faqs = []FAQ{
	{
		ID:       "1",
		Question: "¿Qué tipos de chimeneas ofrecen?",
		Answer:   "Ofrecemos una amplia variedad de chimeneas de leña: tradicionales, modernas y de diseño especial, en materiales como piedra, ladrillo y metal.",
		Category: "productos",
		Keywords: []string{"chimeneas", "tipos", "modelos", "variedad"},
	},
	{
		ID:       "2",
		Question: "¿Cuánto tiempo tarda la instalación?",
		Answer:   "Una instalación estándar toma entre 1 a 3 días hábiles. Para proyectos más complejos, puede tomar hasta una semana.",
		Category: "instalacion",
		Keywords: []string{"instalacion", "tiempo", "duracion", "cuanto tarda", "dias"},
	},
	{
		ID:       "3",
		Question: "¿Ofrecen servicio de mantenimiento?",
		Answer:   "Sí, ofrecemos mantenimiento preventivo únicamente para chimeneas y hornos fabricados e instalados por nosotros. No reparamos productos de otras marcas. Recomendamos mantenimiento anual.",
		Category: "mantenimiento",
		Keywords: []string{"mantenimiento", "limpieza", "preventivo", "servicio", "no reparamos"},
	},
	{
		ID:       "4",
		Question: "¿Qué garantía tienen los productos?",
		Answer:   "Todos nuestros productos vienen con garantía del fabricante, generalmente de 1 a 2 años para la estructura y componentes principales.",
		Category: "garantia",
		Keywords: []string{"garantia", "garantias", "cobertura", "proteccion"},
	},
	{
		ID:       "5",
		Question: "¿Cómo puedo hacer un pedido?",
		Answer:   "Puede hacer un pedido a través del formulario de contacto del sitio web, por teléfono o visitando nuestro showroom. Nuestro equipo coordinará la entrega e instalación.",
		Category: "pedidos",
		Keywords: []string{"pedido", "comprar", "orden", "solicitar", "contacto"},
	},
	{
		ID:       "6",
		Question: "¿Hacen diseños personalizados?",
		Answer:   "Sí, ofrecemos diseño personalizado de chimeneas y hornos adaptado a sus necesidades y estilo arquitectónico.",
		Category: "productos",
		Keywords: []string{"diseño", "personalizado", "custom", "especial", "unico"},
	},
	{
		ID:       "7",
		Question: "¿Qué materiales utilizan?",
		Answer:   "Utilizamos piedra natural, ladrillo refractario y metal de grado industrial, según el tipo de chimenea y las preferencias del cliente.",
		Category: "productos",
		Keywords: []string{"materiales", "piedra", "ladrillo", "metal", "calidad"},
	},
	{
		ID:       "8",
		Question: "¿Necesito algún permiso para instalar una chimenea?",
		Answer:   "Dependiendo de su ubicación y el tipo de chimenea pueden ser necesarios permisos de construcción. Nuestro equipo puede asesorarle sobre los requisitos de su área.",
		Category: "instalacion",
		Keywords: []string{"permisos", "licencias", "regulaciones", "requisitos", "legal"},
	},
}

// FindRelevantFAQs matches a free-form user message against the FAQ corpus.
// A FAQ matches when the message contains one of its keywords, or the
// question/answer text contains the whole message. At most 3 results.
func FindRelevantFAQs(query string) []FAQ {
	lowerQuery := strings.ToLower(query)

	var relevant []FAQ
	for _, faq := range faqs {
		if len(relevant) == 3 {
			break
		}
		questionMatch := strings.Contains(strings.ToLower(faq.Question), lowerQuery)
		answerMatch := strings.Contains(strings.ToLower(faq.Answer), lowerQuery)
		keywordMatch := false
		for _, keyword := range faq.Keywords {
			if strings.Contains(lowerQuery, strings.ToLower(keyword)) {
				keywordMatch = true
				break
			}
		}
		if questionMatch || answerMatch || keywordMatch {
			relevant = append(relevant, faq)
		}
	}
	return relevant
}

// SystemPrompt is the assistant context sent ahead of the conversation.
func SystemPrompt() string {
	var b strings.Builder
	b.WriteString("Eres Igni, el asistente virtual de Chimeneas Luque, empresa familiar fundada en 1975 en Medellín, Colombia. ")
	b.WriteString("Fabricamos e instalamos chimeneas, hornos y fogones artesanales, únicamente a leña. ")
	b.WriteString("Responde en español, de forma breve y cordial. ")
	b.WriteString("Si no conoces la respuesta, invita al cliente a usar el formulario de contacto.\n\n")
	b.WriteString("Preguntas frecuentes:\n")
	for _, faq := range faqs {
		b.WriteString("- ")
		b.WriteString(faq.Question)
		b.WriteString(" ")
		b.WriteString(faq.Answer)
		b.WriteString("\n")
	}
	return b.String()
}

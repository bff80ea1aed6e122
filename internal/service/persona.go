package service

const DefaultPersona = "default"

var personaModifiers = map[string]string{
	"hr":           "\n\nNote: Respond formally, focusing on qualifications, certifications, and professional achievements.",
	"peer":         "\n\nNote: Be casual and technical, mention specific technologies and implementation details.",
	"founder":      "\n\nNote: Focus on business impact, leadership, and project outcomes.",
	DefaultPersona: "",
}

// Personas lists the recognised persona tags.
func Personas() []string {
	return []string{DefaultPersona, "hr", "peer", "founder"}
}

// personaModifier returns the instruction suffix for persona. Unknown tags get none.
func personaModifier(persona string) string {
	return personaModifiers[persona]
}

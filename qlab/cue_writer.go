package qlab

import (
	"fmt"
	"strings"
)

// WriteCueFile generates a CUE file string from a workspace name and cues
func WriteCueFile(workspaceName string, cues []Cue, comment string) string {
	var builder strings.Builder
	builder.WriteString("package qlab\n\n")

	if comment != "" {
		safeComment := strings.ReplaceAll(comment, "\n", " ")
		safeComment = strings.ReplaceAll(safeComment, "\r", " ")
		fmt.Fprintf(&builder, "// %s\n", safeComment)
	}

	builder.WriteString("workspace: {\n")
	fmt.Fprintf(&builder, "\tname: %q\n", workspaceName)
	builder.WriteString("\tcues: [\n")

	for _, c := range cues {
		writeCue(&builder, c, 2)
	}

	builder.WriteString("\t]\n")
	builder.WriteString("}\n")

	return builder.String()
}

// writeCue writes one cue block at the given indentation
func writeCue(builder *strings.Builder, c Cue, indent int) {
	indentStr := strings.Repeat("\t", indent)

	builder.WriteString(indentStr + "{\n")

	// Type is required
	fmt.Fprintf(builder, "%s\ttype: %q\n", indentStr, c.Type)

	if c.Number != "" {
		fmt.Fprintf(builder, "%s\tnumber: %q\n", indentStr, c.Number)
	}
	if c.Name != "" {
		fmt.Fprintf(builder, "%s\tname: %q\n", indentStr, c.Name)
	}
	if c.Notes != "" && c.Notes != c.Name {
		fmt.Fprintf(builder, "%s\tnotes: %q\n", indentStr, c.Notes)
	}

	// Duration is always written; QLab's OSC form is a string, "" for zero
	if c.Duration > 0 {
		fmt.Fprintf(builder, "%s\tduration: %q\n", indentStr, fmt.Sprintf("%g", c.Duration))
	} else {
		fmt.Fprintf(builder, "%s\tduration: \"\"\n", indentStr)
	}

	if c.ContinueMode > 0 {
		fmt.Fprintf(builder, "%s\tcontinueMode: %d\n", indentStr, c.ContinueMode)
	}
	if c.ColorName != "" && c.ColorName != "none" {
		fmt.Fprintf(builder, "%s\tcolorName: %q\n", indentStr, c.ColorName)
	}

	builder.WriteString(indentStr + "},\n")
}

// NormalizeCue fills in defaults so every exported cue is well formed
func NormalizeCue(c *Cue) {
	if c.Type == "" {
		c.Type = CueTypeMemo
	}
	if c.ColorName == "" {
		c.ColorName = "none"
	}
	if c.Duration < 0 {
		c.Duration = 0
	}
}

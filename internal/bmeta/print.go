package bmeta

import "fmt"

const defaultBuildMeta = "N/A" // Значение по умолчанию

// orDefault возвращает значение либо заглушку если оно пустое.
func orDefault(value string) string {
	if value == "" {
		return defaultBuildMeta
	}
	return value
}

// Print распечатывает версию, дату и комит сборки.
// Значения прокидываются через ldflags при сборке бинарника.
func Print(version, date, commit string) {
	fmt.Printf("Build version: %s\n", orDefault(version)) //nolint:forbidigo
	fmt.Printf("Build date: %s\n", orDefault(date))       //nolint:forbidigo
	fmt.Printf("Build commit: %s\n", orDefault(commit))   //nolint:forbidigo
}

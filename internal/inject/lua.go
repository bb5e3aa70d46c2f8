package inject

import (
	"fmt"
	"strings"
	"text/template"
)

// DLCDepots - depot-ы одного DLC для генерации скрипта
type DLCDepots struct {
	Name   string
	Depots []Depot
	AppID  int
}

// luaTemplate воспроизводит форму скрипта, которую ожидает
// плагин: заголовок-комментарий и addappid строки
var luaTemplate = template.Must(template.New("lua").Parse(
	`-- {{.GameName}}
-- Generated by ValTools
-- App ID: {{.AppID}}
-- Total Depots: {{.TotalDepots}}

addappid({{.AppID}})
{{range .MainDepots}}addappid({{.ID}}, 0, "{{.Key}}")
{{end}}{{range .DLC}}{{if .Depots}}
-- DLC: {{.Name}}
addappid({{.AppID}})
{{range .Depots}}addappid({{.ID}}, 0, "{{.Key}}")
{{end}}{{end}}{{end}}`))

type luaData struct {
	GameName    string
	MainDepots  []Depot
	DLC         []DLCDepots
	AppID       int
	TotalDepots int
}

// GenerateLua собирает lua-скрипт регистрации игры из depot-ключей
func GenerateLua(appID int, gameName string, mainDepots []Depot, dlc []DLCDepots) (string, error) {
	if gameName == "" {
		gameName = fmt.Sprintf("App %d", appID)
	}

	total := len(mainDepots)
	for _, d := range dlc {
		total += len(d.Depots)
	}

	var buf strings.Builder
	err := luaTemplate.Execute(&buf, luaData{
		GameName:    gameName,
		AppID:       appID,
		TotalDepots: total,
		MainDepots:  mainDepots,
		DLC:         dlc,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render lua script: %w", err)
	}
	return buf.String(), nil
}

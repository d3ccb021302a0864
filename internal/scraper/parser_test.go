package scraper

import (
	"testing"

	"github.com/Veraticus/microscan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecords(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		query   string
		want    []model.ClassificationRecord
		wantErr string
	}{
		{
			name:  "scraper field names",
			input: `[{"name":"Glow Serum","risk":"HIGH","high":["polyethylene"],"med":["nylon-12"],"image":"https://img/1.png"}]`,
			query: "glow",
			want: []model.ClassificationRecord{{
				Name:                  "Glow Serum",
				RiskTier:              model.RiskHigh,
				HighRiskIngredients:   []string{"polyethylene"},
				MediumRiskIngredients: []string{"nylon-12"},
				ImageURL:              "https://img/1.png",
			}},
		},
		{
			name:  "long field names and missing lists",
			input: `[{"name":"Aqua Gel","riskTier":"low"},{"name":"Night Oil","risk_tier":" Medium ","mediumRiskIngredients":[]}]`,
			query: "gel",
			want: []model.ClassificationRecord{
				{Name: "Aqua Gel", RiskTier: model.RiskLow, HighRiskIngredients: []string{}, MediumRiskIngredients: []string{}},
				{Name: "Night Oil", RiskTier: model.RiskMedium, HighRiskIngredients: []string{}, MediumRiskIngredients: []string{}},
			},
		},
		{
			name:  "missing name falls back to the query",
			input: `[{"risk":"low","high":null}]`,
			query: "Mystery Toner",
			want: []model.ClassificationRecord{
				{Name: "Mystery Toner", RiskTier: model.RiskLow, HighRiskIngredients: []string{}, MediumRiskIngredients: []string{}},
			},
		},
		{
			name:  "empty list",
			input: " [] \n",
			want:  []model.ClassificationRecord{},
		},
		{
			name:    "missing tier rejects the whole batch",
			input:   `[{"name":"A","risk":"low"},{"name":"B"}]`,
			wantErr: "document 1",
		},
		{
			name:    "unknown tier",
			input:   `[{"name":"A","risk":"extreme"}]`,
			wantErr: "unknown risk tier",
		},
		{
			name:    "tier of the wrong type",
			input:   `[{"name":"A","risk":3}]`,
			wantErr: "expected string",
		},
		{
			name:    "ingredient of the wrong type",
			input:   `[{"name":"A","risk":"low","high":["x",1]}]`,
			wantErr: `field "high"[1]`,
		},
		{
			name:    "object instead of array",
			input:   `{"name":"A","risk":"low"}`,
			wantErr: "not a JSON array",
		},
		{
			name:    "empty output",
			input:   "  \n",
			wantErr: "empty output",
		},
		{
			name:    "null document",
			input:   `[null]`,
			wantErr: "null document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecords([]byte(tt.input), tt.query)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

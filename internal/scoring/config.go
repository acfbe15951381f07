package scoring

import (
	"errors"
	"fmt"
)

// IncomeBand define um piso de renda e o bônus correspondente.
// O piso é inclusivo: renda igual ao piso já recebe o bônus da faixa.
type IncomeBand struct {
	Floor float64
	Bonus int
}

// Config concentra todas as constantes de negócio do scoring.
// É construída uma única vez no main e injetada no Engine — nunca
// lida de estado global, para o Engine ser testável com qualquer
// combinação de thresholds.
type Config struct {
	RequiredFieldsPoints int
	HighTicketPoints     int
	RegionPoints         int

	WarmThreshold int
	HotThreshold  int

	HighTicketKeywords []string
	ServedRegions      []string

	// IncomeBands deve estar ordenado do maior piso para o menor.
	IncomeBands []IncomeBand
}

// DefaultConfig retorna os valores padrão de produção.
func DefaultConfig() Config {
	return Config{
		RequiredFieldsPoints: 10,
		HighTicketPoints:     15,
		RegionPoints:         5,

		WarmThreshold: 15,
		HotThreshold:  25,

		// Palavras-chave para produtos de alto ticket
		HighTicketKeywords: []string{
			"imóvel", "apartamento", "casa", "terreno", "lote",
			"investimento", "premium", "luxo", "cobertura",
			"comercial", "empresarial", "corporativo",
		},

		// Cidades/regiões atendidas
		ServedRegions: []string{
			"são paulo", "sp", "rio de janeiro", "rj", "belo horizonte",
			"brasília", "salvador", "fortaleza", "recife", "porto alegre",
			"curitiba", "goiânia", "campinas", "santos", "osasco",
		},

		IncomeBands: []IncomeBand{
			{Floor: 20000, Bonus: 10},
			{Floor: 10000, Bonus: 7},
			{Floor: 5000, Bonus: 5},
			{Floor: 3000, Bonus: 3},
		},
	}
}

// Validate falha na inicialização se os thresholds forem inconsistentes.
// Configuração inválida nunca é corrigida silenciosamente.
func (c Config) Validate() error {
	if c.WarmThreshold < 0 {
		return errors.New("warm_lead_threshold não pode ser negativo")
	}
	if c.WarmThreshold > c.HotThreshold {
		return fmt.Errorf("warm_lead_threshold (%d) não pode ser maior que hot_lead_threshold (%d)",
			c.WarmThreshold, c.HotThreshold)
	}

	for i := 1; i < len(c.IncomeBands); i++ {
		if c.IncomeBands[i].Floor >= c.IncomeBands[i-1].Floor {
			return errors.New("income_bands deve estar ordenado do maior piso para o menor")
		}
	}
	for _, band := range c.IncomeBands {
		if band.Bonus < 0 {
			return errors.New("income_bands não pode ter bônus negativo")
		}
	}

	return nil
}

package services

// MicroUnitsPerUnit количество микроединиц в одной единице валюты.
// Все суммы в системе целочисленные, в микроединицах.
const MicroUnitsPerUnit uint64 = 1_000_000

// defaultPriceTiers стоимость кастомного слага по длине 0..8,
// длина >= 8 обрезается до последней ступени.
var defaultPriceTiers = [9]uint64{
	0,         // 0
	1_000_000, // 1 -> 1
	500_000,   // 2 -> 0.5
	250_000,   // 3 -> 0.25
	100_000,   // 4 -> 0.1
	50_000,    // 5 -> 0.05
	30_000,    // 6 -> 0.03
	20_000,    // 7 -> 0.02
	10_000,    // >= 8 -> 0.01
}

// PricingEngine чистая таблица стоимости слага по его длине.
// Таблица задается при создании и далее не меняется.
type PricingEngine struct {
	tiers [9]uint64
}

func NewPricingEngine() *PricingEngine {
	return &PricingEngine{tiers: defaultPriceTiers}
}

// Cost возвращает стоимость слага длины length в микроединицах.
func (p *PricingEngine) Cost(length int) uint64 {
	if length >= len(p.tiers) {
		length = len(p.tiers) - 1
	}
	if length < 0 {
		length = 0
	}
	return p.tiers[length]
}

package repository

// LedgerRepos agrupa los repositorios del libro atados a una misma conexión o transacción.
type LedgerRepos struct {
	Rolls         RollRepository
	PurchaseLines PurchaseLineRepository
	OrderLines    OrderLineRepository
	Receipts      ReceiptRepository
	Shipments     ShipmentRepository
	Sequences     SequenceRepository
	Thresholds    ThresholdRepository
}

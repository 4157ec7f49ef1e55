package entities

// Виды ключей для per-entity блокировок: один вид на таблицу.
const (
	LockKindShipment = "shipment"
	LockKindMatch    = "match"
)

package board

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/lo-board/models"
	"github.com/yeremiapane/lo-board/utils"
)

// Event types pushed to connected board clients.
const (
	EventTableCreate       = "table_create"
	EventTableUpdate       = "table_update"
	EventTableDelete       = "table_delete"
	EventReservationCreate = "reservation_create"
	EventReservationUpdate = "reservation_update"
	EventReservationDelete = "reservation_delete"
	EventPhaseUpdate       = "phase_update"
	EventLOAlert           = "lo_alert"
	EventDashboardUpdate   = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub tracks every connected board client (staff, admin) for broadcast.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var boardHub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	boardHub.mutex.Lock()
	defer boardHub.mutex.Unlock()
	boardHub.clients[conn] = role
}

// UnregisterClient drops and closes a connection.
func UnregisterClient(conn *websocket.Conn) {
	boardHub.mutex.Lock()
	defer boardHub.mutex.Unlock()
	delete(boardHub.clients, conn)
	conn.Close()
}

// BroadcastTableCreate announces a new table row.
func BroadcastTableCreate(table models.Table) {
	broadcast(Message{Event: EventTableCreate, Data: table})
}

// BroadcastTableUpdate announces a renamed or reordered table.
func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{Event: EventTableUpdate, Data: table})
}

// BroadcastTableDelete announces a removed table.
func BroadcastTableDelete(tableID interface{}) {
	broadcast(Message{Event: EventTableDelete, Data: map[string]interface{}{"table_id": tableID}})
}

// BroadcastReservationCreate announces a new reservation bar.
func BroadcastReservationCreate(r models.Reservation) {
	broadcast(Message{Event: EventReservationCreate, Data: r})
}

// BroadcastReservationUpdate announces any reservation mutation (checklist,
// extension, checkout, drag remap).
func BroadcastReservationUpdate(r models.Reservation) {
	broadcast(Message{Event: EventReservationUpdate, Data: r})
}

// BroadcastReservationDelete announces a removed reservation.
func BroadcastReservationDelete(reservationID interface{}) {
	broadcast(Message{Event: EventReservationDelete, Data: map[string]interface{}{"reservation_id": reservationID}})
}

// BroadcastPhaseUpdate announces a reservation crossing into a new LO phase.
func BroadcastPhaseUpdate(r models.Reservation, phase models.LOPhase) {
	broadcast(Message{Event: EventPhaseUpdate, Data: map[string]interface{}{
		"reservation": r,
		"phase":       phase,
	}})
}

// BroadcastLOAlert delivers a fired LO reminder to every client.
func BroadcastLOAlert(notif models.Notification) {
	broadcast(Message{Event: EventLOAlert, Data: notif})
}

// BroadcastDashboardUpdate pushes refreshed phase counts.
func BroadcastDashboardUpdate(data interface{}) {
	broadcast(Message{Event: EventDashboardUpdate, Data: data})
}

// BroadcastMessage broadcasts an arbitrary message.
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

func broadcast(msg Message) {
	boardHub.mutex.Lock()
	defer boardHub.mutex.Unlock()

	payload, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Failed to marshal board message: %v", err)
		return
	}

	for conn := range boardHub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(boardHub.clients, conn)
			conn.Close()
		}
	}
}

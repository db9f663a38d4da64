package chathub

import (
	"log"
	"sync"

	"connecto/backend/internal/models"
	"connecto/backend/internal/storage"
)

// Notifier is invoked after a message is durably written, to alert members
// who are not currently online. Best-effort: failures never reach clients.
type Notifier interface {
	NotifyRoomMembersOnNewMessage(roomID, senderID, content string)
}

// ManagerService володіє всіма живими з'єднаннями та підписками на
// кімнати. Реєстрація і розсилка йдуть через головний цикл Run;
// обробка вхідних подій виконується в goroutine кожного з'єднання.
type ManagerService struct {
	mu sync.RWMutex

	// Clients — усі зареєстровані з'єднання за ConnID.
	Clients map[string]Client
	// rooms: roomID -> ConnID -> Client
	rooms map[string]map[string]Client

	// roomLocks серіалізує persist+publish у межах однієї кімнати,
	// щоб порядок публікації збігався з порядком прийняття в журнал.
	roomLocks  map[string]*sync.Mutex
	roomLockMu sync.Mutex

	RegisterCh   chan Client
	UnregisterCh chan Client

	// PubSubCh живиться з Redis Pub/Sub (див. pubsub.go); весь room-scoped
	// fan-out проходить через нього, зокрема й для локальних подій.
	PubSubCh chan models.ServerEvent

	Storage  storage.Storage
	Notifier Notifier
}

// NewManagerService creates the hub. notifier may be nil, in which case
// offline-member notification is skipped.
func NewManagerService(s storage.Storage, notifier Notifier) *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		rooms:        make(map[string]map[string]Client),
		roomLocks:    make(map[string]*sync.Mutex),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		PubSubCh:     make(chan models.ServerEvent, 64),
		Storage:      s,
		Notifier:     notifier,
	}
}

// Run — головний диспетчер: реєстрація, відключення та fan-out подій.
func (m *ManagerService) Run() {
	for {
		select {
		case client := <-m.RegisterCh:
			m.addClient(client)
			log.Printf("conn %s registered for user %s", client.GetConnID(), client.GetUserID())

		case client := <-m.UnregisterCh:
			m.removeClient(client)
			log.Printf("conn %s disconnected", client.GetConnID())

		case event := <-m.PubSubCh:
			m.fanOut(event)
		}
	}
}

func (m *ManagerService) addClient(client Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clients[client.GetConnID()] = client
}

// removeClient знімає з'єднання з реєстру та з усіх підписок.
// Ефемерні факти (presence/typing) не чистяться — вони протухнуть самі.
func (m *ManagerService) removeClient(client Client) {
	connID := client.GetConnID()

	m.mu.Lock()
	if _, ok := m.Clients[connID]; !ok {
		m.mu.Unlock()
		return
	}
	delete(m.Clients, connID)
	for roomID, subs := range m.rooms {
		delete(subs, connID)
		if len(subs) == 0 {
			delete(m.rooms, roomID)
		}
	}
	m.mu.Unlock()

	client.Close()
}

// subscribe додає з'єднання до групи розсилки кімнати.
func (m *ManagerService) subscribe(client Client, roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs, ok := m.rooms[roomID]
	if !ok {
		subs = make(map[string]Client)
		m.rooms[roomID] = subs
	}
	subs[client.GetConnID()] = client
}

// fanOut доставляє подію всім локальним підписникам кімнати.
// Доставка кожному з'єднанню неблокуюча: повільне чи мертве з'єднання
// відключається і не затримує решту.
func (m *ManagerService) fanOut(event models.ServerEvent) {
	m.mu.RLock()
	subs := m.rooms[event.RoomID]
	targets := make([]Client, 0, len(subs))
	for _, client := range subs {
		targets = append(targets, client)
	}
	m.mu.RUnlock()

	// ExcludeConnID — маршрутне поле конверта між інстансами; клієнтам
	// воно не належить.
	excluded := event.ExcludeConnID
	event.ExcludeConnID = ""

	for _, client := range targets {
		if client.GetConnID() == excluded {
			continue
		}
		if !client.Send(event) {
			log.Printf("dropping slow conn %s", client.GetConnID())
			m.removeClient(client)
		}
	}
}

// roomLock повертає м'ютекс кімнати, створюючи його за потреби.
func (m *ManagerService) roomLock(roomID string) *sync.Mutex {
	m.roomLockMu.Lock()
	defer m.roomLockMu.Unlock()

	lock, ok := m.roomLocks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		m.roomLocks[roomID] = lock
	}
	return lock
}

package dashboard

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed between pongs before a client is dropped.
	pongWait = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type DatasetEventType string

const (
	DatasetEventConnected DatasetEventType = "connected"
	DatasetEventReloaded  DatasetEventType = "reloaded"
)

type datasetEvent struct {
	EventType DatasetEventType
	Dataset   DatasetInfo
}

// DatasetEventsHub tells connected browsers when the dataset has been reloaded, so that
// they can refresh their view.
type DatasetEventsHub struct {
	clients    map[*datasetEventsClient]bool
	broadcast  chan datasetEvent
	register   chan *datasetEventsClient
	unregister chan *datasetEventsClient

	datasets *DatasetManager
}

func NewDatasetEventsHub(datasets *DatasetManager) *DatasetEventsHub {
	h := &DatasetEventsHub{
		broadcast:  make(chan datasetEvent, 16),
		register:   make(chan *datasetEventsClient),
		unregister: make(chan *datasetEventsClient),
		clients:    make(map[*datasetEventsClient]bool),
		datasets:   datasets,
	}

	datasets.OnReload(func(dataset *Dataset) {
		h.Send(DatasetEventReloaded, dataset)
	})

	return h
}

// Send broadcasts an event to every connected client. If the hub is backed up the
// event is dropped.
func (h *DatasetEventsHub) Send(eventType DatasetEventType, dataset *Dataset) {
	select {
	case h.broadcast <- datasetEvent{EventType: eventType, Dataset: dataset.Info()}:
	default:
		logrus.Warnf("Dataset events hub is full, dropping %s event", eventType)
	}
}

func (h *DatasetEventsHub) run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.receive)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.receive <- message:
				default:
					close(client.receive)
					delete(h.clients, client)
				}
			}
		}
	}
}

type datasetEventsClient struct {
	hub *DatasetEventsHub

	conn    *websocket.Conn
	receive chan datasetEvent
}

// readPump discards anything the browser sends, and unregisters the client when the
// connection goes away.
func (c *datasetEventsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *datasetEventsClient) writePump() {
	ticker := time.NewTicker(pongWait / 2)
	defer func() {
		if rvr := recover(); rvr != nil {
			logrus.WithField("panic", rvr).Errorf("Recovered from panic")
		}
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.receive:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			err := c.conn.WriteJSON(message)

			if err != nil && !strings.HasSuffix(err.Error(), "write: broken pipe") {
				logrus.WithError(err).Errorf("Could not send websocket message")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *DatasetEventsHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)

	if err != nil {
		logrus.WithError(err).Error("could not upgrade dataset events connection")
		return
	}

	client := &datasetEventsClient{hub: h, conn: c, receive: make(chan datasetEvent, 16)}

	// new client, tell them what they're looking at.
	if dataset, err := h.datasets.Current(); err == nil {
		client.receive <- datasetEvent{EventType: DatasetEventConnected, Dataset: dataset.Info()}
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

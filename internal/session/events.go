package session

import (
	"fmt"
	"log"
	"time"

	"github.com/xitongsys/parquet-go/schema"
)

const (
	TopicMenuProjected = "menu_projected_events"
	TopicCartUpdated   = "cart_updated_events"
	TopicSession       = "session_events"
)

const (
	EventMenuProjected  = "MENU_PROJECTED"
	EventCartUpdated    = "CART_UPDATED"
	EventSessionStarted = "SESSION_STARTED"
	EventSessionEnded   = "SESSION_ENDED"
)

// BaseEvent is the common structure for all browse-session events
type BaseEvent struct {
	Timestamp    int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType    string `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	SessionID    string `json:"sessionId" parquet:"name=sessionId,type=BYTE_ARRAY,convertedtype=UTF8"`
	UserID       string `json:"userId,omitempty" parquet:"name=userId,type=BYTE_ARRAY,convertedtype=UTF8"`
	RestaurantID string `json:"restaurantId,omitempty" parquet:"name=restaurantId,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// MenuProjectedEvent records one re-projection of the menu for the session's
// diner, emitted on each tick and on preference change.
type MenuProjectedEvent struct {
	BaseEvent
	ItemCount        int64   `json:"itemCount" parquet:"name=itemCount,type=INT64"`
	RecommendedCount int64   `json:"recommendedCount" parquet:"name=recommendedCount,type=INT64"`
	TopItemID        string  `json:"topItemId,omitempty" parquet:"name=topItemId,type=BYTE_ARRAY,convertedtype=UTF8"`
	TopScore         int64   `json:"topScore" parquet:"name=topScore,type=INT64"`
	Trigger          string  `json:"trigger" parquet:"name=trigger,type=BYTE_ARRAY,convertedtype=UTF8"`
	AvgDynamicPrice  float64 `json:"avgDynamicPrice" parquet:"name=avgDynamicPrice,type=DOUBLE"`
}

// CartUpdatedEvent records a single cart mutation and the resulting totals.
type CartUpdatedEvent struct {
	BaseEvent
	Action    string  `json:"action" parquet:"name=action,type=BYTE_ARRAY,convertedtype=UTF8"`
	ItemID    string  `json:"itemId" parquet:"name=itemId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Quantity  int64   `json:"quantity" parquet:"name=quantity,type=INT64"`
	CartCount int64   `json:"cartCount" parquet:"name=cartCount,type=INT64"`
	CartTotal float64 `json:"cartTotal" parquet:"name=cartTotal,type=DOUBLE"`
}

// SessionLifecycleEvent brackets a browsing session.
type SessionLifecycleEvent struct {
	BaseEvent
	CartCount int64   `json:"cartCount" parquet:"name=cartCount,type=INT64"`
	CartTotal float64 `json:"cartTotal" parquet:"name=cartTotal,type=DOUBLE"`
}

func GetSchema(topic string) (*schema.SchemaHandler, error) {
	var sh *schema.SchemaHandler
	var err error

	switch topic {
	case TopicMenuProjected:
		sh, err = schema.NewSchemaHandlerFromStruct(new(MenuProjectedEvent))
	case TopicCartUpdated:
		sh, err = schema.NewSchemaHandlerFromStruct(new(CartUpdatedEvent))
	case TopicSession:
		sh, err = schema.NewSchemaHandlerFromStruct(new(SessionLifecycleEvent))
	default:
		return nil, fmt.Errorf("unknown event topic: %s", topic)
	}

	if err != nil {
		log.Printf("Error creating schema for %s: %v", topic, err)
		return nil, fmt.Errorf("error creating schema for %s: %w", topic, err)
	}

	return sh, nil
}

func NewBaseEvent(eventType, sessionID string, timestamp time.Time) BaseEvent {
	return BaseEvent{
		Timestamp: timestamp.Unix(),
		EventType: eventType,
		SessionID: sessionID,
	}
}

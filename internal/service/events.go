package service

import (
	"fmt"

	"go-society-manager/internal/event"
	"go-society-manager/internal/model"
)

func publish(bus event.Bus, typ event.Type, actor model.AuditActor, resource string, before any, after any) {
	if bus == nil {
		return
	}
	bus.Publish(event.Event{
		Type:     typ,
		Resource: resource,
		Before:   before,
		Payload:  after,
		Actor: event.Actor{
			UserID:   actor.UserID,
			Username: actor.Username,
			Role:     actor.Role,
			IP:       actor.IP,
		},
	})
}

func resourceKey(kind string, id string) string {
	return fmt.Sprintf("%s/%s", kind, id)
}

package mq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusDeliversInOrderAndUnsubscribes(t *testing.T) {
	bus := NewBus(nil)
	var got []string

	unsubA := bus.Subscribe(func(name string, c Index) { got = append(got, "a:"+name+":"+c.EntityId) })
	bus.Subscribe(func(name string, c Index) { got = append(got, "b:"+name) })

	assert.NoError(t, bus.Emit(SignedIn, Index{EntityType: "user", EntityId: "u1"}))
	assert.Equal(t, []string{"a:SIGNED_IN:u1", "b:SIGNED_IN"}, got)

	unsubA()
	unsubA()
	got = nil
	assert.NoError(t, bus.Emit(SignedOut, Index{EntityId: "u1"}))
	assert.Equal(t, []string{"b:SIGNED_OUT"}, got)
}

func TestNilBusIsNoop(t *testing.T) {
	var bus *Bus
	assert.NoError(t, bus.Emit(AdminChanged, Index{}))
}

package services

import (
	"testing"
	"time"
)

func TestCreateProcessorEventService_EventTTL(t *testing.T) {
	svc := CreateProcessorEventService(nil, nil, nil, nil, nil, nil, nil, 6*time.Hour)
	if svc.eventTTL != 6*time.Hour {
		t.Errorf("eventTTL = %v, want 6h", svc.eventTTL)
	}

	svc = CreateProcessorEventService(nil, nil, nil, nil, nil, nil, nil, 0)
	if svc.eventTTL != defaultEventTTL {
		t.Errorf("eventTTL = %v, want default %v", svc.eventTTL, defaultEventTTL)
	}
}

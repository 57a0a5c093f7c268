package core

// FormAssociatedCallback runs when the platform associates the element with
// a form. Only form-associated hosts emit "formassociate".
func (h *Host) FormAssociatedCallback(form string) {
	if !h.def.form {
		return
	}
	h.dispatchEvent(Event{Type: EventFormAssociate, Detail: form})
}

// FormResetCallback runs when the owning form is reset.
func (h *Host) FormResetCallback() {
	if !h.def.form {
		return
	}
	h.dispatchEvent(Event{Type: EventFormReset})
}

// FormDisabledCallback runs when the element's disabled state changes.
func (h *Host) FormDisabledCallback(disabled bool) {
	if !h.def.form {
		return
	}
	if disabled {
		h.dispatchEvent(Event{Type: EventFormDisable})
	} else {
		h.dispatchEvent(Event{Type: EventFormEnable})
	}
}

// FormStateRestoreCallback runs when the platform restores form state.
func (h *Host) FormStateRestoreCallback(state any, reason string) {
	if !h.def.form {
		return
	}
	h.dispatchEvent(Event{Type: EventFormStateRestore, Detail: FormState{State: state, Reason: reason}})
}

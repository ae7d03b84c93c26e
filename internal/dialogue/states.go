package dialogue

import "github.com/looplab/fsm"

const (
	StateLang       = "lang"
	StateRegion     = "region"
	StateMode       = "mode"
	StateName       = "name"
	StateDOB        = "dob"
	StateDistrict   = "district"
	StateContact    = "contact"
	StateAppealType = "appeal_type"
	StateContent    = "content"
	StateConfirm    = "confirm"
	StateEnd        = "end"
)

// Transition names fired on the per-session machine.
const (
	transitionNext   = "next"
	transitionEdit   = "edit"
	transitionSubmit = "submit"
	transitionCancel = "cancel"
)

func activeStates(extended bool) []string {
	states := []string{
		StateLang, StateRegion, StateMode, StateName, StateDOB, StateDistrict, StateContact,
	}
	if extended {
		states = append(states, StateAppealType)
	}

	return append(states, StateContent, StateConfirm)
}

func transitions(extended bool) fsm.Events {
	afterContact := StateContent
	if extended {
		afterContact = StateAppealType
	}

	events := fsm.Events{
		{Name: transitionNext, Src: []string{StateLang}, Dst: StateRegion},
		{Name: transitionNext, Src: []string{StateRegion}, Dst: StateMode},
		{Name: transitionNext, Src: []string{StateMode}, Dst: StateName},
		{Name: transitionNext, Src: []string{StateName}, Dst: StateDOB},
		{Name: transitionNext, Src: []string{StateDOB}, Dst: StateDistrict},
		{Name: transitionNext, Src: []string{StateDistrict}, Dst: StateContact},
		{Name: transitionNext, Src: []string{StateContact}, Dst: afterContact},
		{Name: transitionNext, Src: []string{StateContent}, Dst: StateConfirm},

		{Name: transitionEdit, Src: []string{StateConfirm}, Dst: StateRegion},
		{Name: transitionSubmit, Src: []string{StateConfirm}, Dst: StateEnd},
		{Name: transitionCancel, Src: activeStates(extended), Dst: StateEnd},
	}

	if extended {
		events = append(events, fsm.EventDesc{Name: transitionNext, Src: []string{StateAppealType}, Dst: StateContent})
	}

	return events
}

func newMachine(extended bool) *fsm.FSM {
	return fsm.NewFSM(StateLang, transitions(extended), fsm.Callbacks{})
}

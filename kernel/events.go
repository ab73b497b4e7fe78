package kernel

import (
	"github.com/colonykernel/sim/eventbus"
	"github.com/colonykernel/sim/pathfinding"
)

// Subscribe registers sink on the kernel's event bus. The kernel itself
// never imports a rendering or UI package; sinks are the only thing
// that crosses that boundary, and only in this direction.
func (k *Kernel) Subscribe(sink eventbus.Subscriber) {
	k.Bus.Subscribe(sink)
}

// SetDanger installs the shared danger overlay both FSMs consult when
// requesting paths (e.g. a threat-tile cost penalty layer). Passing nil
// reverts to no danger weighting.
func (k *Kernel) SetDanger(d pathfinding.DangerOverlay) {
	k.colonistCtx.Danger = d
	k.intruderCtx.Danger = d
}

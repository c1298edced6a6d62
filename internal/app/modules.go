package app

import (
	"github.com/vk/visualgrid/internal/registry"
	"github.com/vk/visualgrid/modules/debug"
	"github.com/vk/visualgrid/modules/env_vars"
	"github.com/vk/visualgrid/modules/flow"
	"github.com/vk/visualgrid/modules/formula"
	"github.com/vk/visualgrid/modules/maths"
	"github.com/vk/visualgrid/modules/text"
	"github.com/vk/visualgrid/modules/variables"
)

// coreModules is the definitive list of all node packs that are compiled
// into the visualgrid binary.
var coreModules = []registry.Module{
	&variables.Module{},
	&flow.Module{},
	&maths.Module{},
	&text.Module{},
	&debug.Module{},
	&formula.Module{},
	&env_vars.Module{},
}

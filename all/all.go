// Package all imports every supported hosting provider.
//
// Import this package for its side effects to register all services:
//
//	import (
//		vcs "github.com/pulsar-edit/package-vcs"
//		_ "github.com/pulsar-edit/package-vcs/all"
//	)
//
//	// Now every service is available
//	services := vcs.SupportedServices()
//	// ["git"]
package all

import (
	_ "github.com/pulsar-edit/package-vcs/internal/github"
)

// Package config loads and validates moco project configuration.
//
// A project is configured by a file named moco_config with extension .json,
// .yaml, .yml or .toml. Its layout is described by an embedded schema, which
// also supplies the default value of every setting:
//
//	{
//	  "packs": { "behaviorPack": "./packs/BP", "resourcePack": "./packs/RP" },
//	  "source": { "directory": "molang", "include": ["*.molang"], "exclude": [] },
//	  "output": { "indent": 2 },
//	  "expand": { "maxPasses": 32 },
//	  "watch": { "debounce": "500ms" },
//	  "log": { "level": "info", "format": "text", "pretty": true, "caller": false }
//	}
//
// Settings missing from a file take their defaults. Pack roots are resolved
// against the directory containing the file.
package config

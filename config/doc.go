// Package config loads the greengain YAML configuration and the optional
// credit rule table, and watches the rule table for edits.
//
// Missing fields are filled with defaults. A few settings can be
// overridden from the environment so containers can run without a file:
//
//	GREENGAIN_HTTP_PORT   server.http_port
//	GREENGAIN_REDIS_ADDR  redis.addr
//	GREENGAIN_RULES_PATH  rules.path
//
// Secrets are never stored in the file. Fields ending in _env name the
// environment variable that holds the value.
package config

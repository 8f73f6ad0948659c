// Package config provides configuration parsing for lexmart.
//
// The configuration is stored in lexmart.json (or lexmart.yaml) at the
// project root. This package handles loading, saving, and validating it.
// Durations are written as Go duration strings.
//
// # Configuration File Structure
//
//	{
//	  "name": "Lexmart",
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 8080,
//	    "shutdownTimeout": "10s",
//	    "metrics": true
//	  },
//	  "upload": {
//	    "store": "s3",
//	    "maxBodyBytes": 10485760,
//	    "s3": {
//	      "bucket": "lexmart-media",
//	      "region": "eu-west-1",
//	      "publicBaseUrl": "https://cdn.lexmart.dev"
//	    }
//	  },
//	  "tooltip": {
//	    "side": "top",
//	    "delay": "200ms"
//	  },
//	  "live": {
//	    "enabled": true,
//	    "path": "/live"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "json"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config

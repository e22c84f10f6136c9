package config

// defaultConfig is the configuration used when no file is given.
var defaultConfig = `
thresholds:
  same_platform:
    warning_percent: 15
    critical_percent: 30
  cross_platform:
    warning_percent: 25
    critical_percent: 50

table_descriptions:
  load_profile: "Load profile"
  instance_efficiency: "Instance efficiency percentages"
  top_sql_elapsed: "Top SQL by elapsed time"
  top_sql_cpu: "Top SQL by CPU time"
  wait_events: "Wait events"
  io_statistics: "I/O statistics"
  time_model_statistics: "Time model statistics"
  general_statistics: "Cluster statistics"
  database_statistics: "Database statistics"
  queries_statistics: "Top SQL by elapsed time"
  table_statistics: "Table statistics"
  index_statistics: "Index statistics"

ignored_columns: []

metric_mapping:
  oracle_to_postgres:
    "DB Time": ["total_exec_time"]
    "Executions": ["calls"]
    "Elapsed Time": ["total_time"]
    "Waits": ["Count"]
  postgres_to_oracle:
    "total_exec_time": ["DB Time"]
    "calls": ["Executions"]
    "total_time": ["Elapsed Time"]
    "Count": ["Waits"]
`

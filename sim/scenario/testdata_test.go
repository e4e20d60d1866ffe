package scenario

const deadlockYAML = `
scheduling_policy: Round Robin
assignment_policy: First In First Out
time_slice: 1
icpp: false
processes:
  - {name: P1, activation_time: 0, execution_time: 10, priority: 1}
  - {name: P2, activation_time: 0, execution_time: 10, priority: 1}
resources:
  - {name: R1, preemptive: false, multiplicity: 1, ceiling: 1}
  - {name: R2, preemptive: false, multiplicity: 1, ceiling: 1}
accesses:
  - {process: P1, resource: R1, request_time: 0, duration: 6}
  - {process: P1, resource: R2, request_time: 2, duration: 3}
  - {process: P2, resource: R2, request_time: 0, duration: 6}
  - {process: P2, resource: R1, request_time: 1, duration: 3}
`

const configurationXML = `<?xml version="1.0" encoding="UTF-8"?>
<configuration>
  <schedulingPolicy>Preemptive Highest Priority First</schedulingPolicy>
  <assignmentPolicy>Highest Priority First</assignmentPolicy>
  <timeSlice>3</timeSlice>
  <icpp>true</icpp>
  <processes>
    <process>
      <name>A</name>
      <activationTime>0</activationTime>
      <executionTime>6</executionTime>
      <basePriority>2</basePriority>
    </process>
    <process>
      <name>B</name>
      <activationTime>2</activationTime>
      <executionTime>3</executionTime>
      <basePriority>9</basePriority>
    </process>
  </processes>
  <resources>
    <resource>
      <name>lock</name>
      <preemptive>false</preemptive>
      <multiplicity>1</multiplicity>
      <ceilingPriority>9</ceilingPriority>
    </resource>
    <resource>
      <name>fpu</name>
      <preemptive>true</preemptive>
      <multiplicity>2</multiplicity>
      <ceilingPriority>--</ceilingPriority>
    </resource>
  </resources>
  <accesses>
    <access>
      <processName>A</processName>
      <resourceName>lock</resourceName>
      <requestTime>1</requestTime>
      <requestDuration>3</requestDuration>
    </access>
  </accesses>
</configuration>
`
